// Command adminpass reads the staff password from stdin and prints the
// bcrypt hash to put in ADMIN_PASSWORD_HASH.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ftour-be/internal/auth"
	"ftour-be/internal/logger"

	"go.uber.org/zap"
)

func main() {
	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()

	hash, err := hashFrom(os.Stdin)
	if err != nil {
		logger.L().Fatal("failed to hash admin password", zap.Error(err))
	}
	fmt.Println(hash)
}

// hashFrom hashes the first line of r.
func hashFrom(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no password on stdin")
	}

	password := strings.TrimRight(scanner.Text(), "\r")
	if password == "" {
		return "", errors.New("password is empty")
	}
	return auth.HashPassword(password)
}
