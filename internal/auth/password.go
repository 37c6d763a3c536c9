package auth

import (
	"errors"

	"ftour-be/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminLoginDisabled = errors.New("admin login is not configured")
)

// HashPassword hashes password with bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AdminLogin exchanges the staff password for an admin session token.
type AdminLogin struct {
	issuer       *Issuer
	passwordHash string
}

// NewAdminLogin creates the login. An empty hash disables admin login.
func NewAdminLogin(issuer *Issuer, passwordHash string) *AdminLogin {
	return &AdminLogin{issuer: issuer, passwordHash: passwordHash}
}

func (a *AdminLogin) Login(password string) (string, *SessionClaims, error) {
	if a.passwordHash == "" {
		return "", nil, ErrAdminLoginDisabled
	}
	if !CheckPasswordHash(password, a.passwordHash) {
		return "", nil, ErrInvalidCredentials
	}
	return a.issuer.Issue(uuid.NewString(), utils.RoleAdmin)
}
