package api

import (
	"errors"
	"net/http"
	"strconv"

	"ftour-be/internal/logger"
	"ftour-be/internal/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//
// --- Admin Handlers ---
//

type adminLoginInput struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin issues an admin session for the staff password.
func (h *Handlers) AdminLogin(c *gin.Context) {
	var input adminLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	token, claims, err := h.Admins.Login(input.Password)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Warn("admin login rejected",
			zap.String("layer", "handler"),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}
	h.writeSession(c, token, claims)
}

// ListOrders lists orders newest first. Query: status, limit, page.
func (h *Handlers) ListOrders(c *gin.Context) {
	filter := order.ListFilter{Status: order.Status(c.Query("status"))}

	var err error
	if filter.Limit, err = intQuery(c, "limit"); err != nil {
		badRequest(c, err)
		return
	}
	if filter.Page, err = intQuery(c, "page"); err != nil {
		badRequest(c, err)
		return
	}

	orders, err := h.Orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = newOrderResponse(o)
	}
	c.JSON(http.StatusOK, gin.H{"orders": out, "page": filter.Page, "limit": filter.Limit})
}

// intQuery parses an optional integer query parameter; absent means 0.
func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}
