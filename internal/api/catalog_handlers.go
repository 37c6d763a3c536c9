package api

import (
	"errors"
	"net/http"

	"ftour-be/internal/auth"
	"ftour-be/internal/catalog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//
// --- Catalog Handlers (public) ---
//

// ListProducts supports ?category=, repeated ?tag= and ?minPrice=/?maxPrice=.
func (h *Handlers) ListProducts(c *gin.Context) {
	filter := catalog.ProductFilter{
		Category: c.Query("category"),
		Tags:     c.QueryArray("tag"),
	}

	var err error
	if filter.MinPrice, err = priceParam(c, "minPrice"); err != nil {
		badRequest(c, err)
		return
	}
	if filter.MaxPrice, err = priceParam(c, "maxPrice"); err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": h.Catalog.Products(filter)})
}

func priceParam(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &d, nil
}

func (h *Handlers) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.Catalog.Categories()})
}

func (h *Handlers) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": h.Catalog.Tags()})
}

func (h *Handlers) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": h.Catalog.Packages()})
}

func (h *Handlers) GetPackage(c *gin.Context) {
	p, err := h.Catalog.Package(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

//
// --- Delivery Handlers (public) ---
//

// DeliveryQuote prices delivery now, or fails with ORDERING_CLOSED.
func (h *Handlers) DeliveryQuote(c *gin.Context) {
	q, err := h.Delivery.Quote(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handlers) DeliveryStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  h.Delivery.Status(c.Request.Context()),
		"windows": h.Delivery.Windows(),
	})
}

//
// --- Session Handlers ---
//

type sessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expiresAt"`
}

// CreateSession issues an anonymous customer session as a cookie and in the
// body for clients that prefer the Authorization header.
func (h *Handlers) CreateSession(c *gin.Context) {
	token, claims, err := h.Sessions.NewSession()
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeSession(c, token, claims)
}

func (h *Handlers) writeSession(c *gin.Context, token string, claims *auth.SessionClaims) {
	expires := claims.ExpiresAt.Time
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(expires.Sub(claims.IssuedAt.Time).Seconds()), "/", "", h.SecureCookies, true)

	c.JSON(http.StatusCreated, sessionResponse{
		Token:     token,
		SessionID: claims.SessionID,
		Role:      claims.Role,
		ExpiresAt: expires.UTC().Format(http.TimeFormat),
	})
}
