package api

import (
	"context"
	"net/http"

	"ftour-be/internal/auth"
	"ftour-be/internal/cart"
	"ftour-be/internal/catalog"
	"ftour-be/internal/delivery"
	"ftour-be/internal/metrics"
	"ftour-be/internal/order"
	"ftour-be/internal/packages"
	"ftour-be/internal/utils"

	"github.com/gin-gonic/gin"
)

// CatalogReader is the read-only catalog surface the storefront exposes.
type CatalogReader interface {
	Products(filter catalog.ProductFilter) []catalog.Product
	Categories() []string
	Tags() []string
	Packages() []catalog.PackageTemplate
	Package(id string) (catalog.PackageTemplate, error)
}

type DeliveryPolicy interface {
	Quote(ctx context.Context) (delivery.Quote, error)
	Status(ctx context.Context) delivery.Status
	Windows() delivery.Windows
}

// SessionIssuer hands out anonymous customer sessions and verifies them.
type SessionIssuer interface {
	NewSession() (string, *auth.SessionClaims, error)
	Parse(token string) (*auth.SessionClaims, error)
}

// AdminAuthenticator trades the staff password for an admin session.
type AdminAuthenticator interface {
	Login(password string) (string, *auth.SessionClaims, error)
}

// Handlers holds all dependencies for our handlers.
type Handlers struct {
	Catalog  CatalogReader
	Delivery DeliveryPolicy
	Carts    cart.Service
	Packages packages.Service
	Orders   order.Service
	Sessions SessionIssuer
	Admins   AdminAuthenticator
	Metrics  *metrics.Registry

	// SecureCookies marks the session cookie Secure (production).
	SecureCookies bool
}

func sessionID(c *gin.Context) string {
	id, _ := utils.GetSessionIDFromContext(c.Request.Context())
	return id
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) MetricsSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.Metrics.Snapshot())
}
