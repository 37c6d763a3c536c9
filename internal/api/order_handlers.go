package api

import (
	"net/http"

	"ftour-be/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//
// --- Order Handlers ---
//

type checkoutInput struct {
	Customer *order.CustomerInfo `json:"customer" binding:"required"`
}

type statusInput struct {
	Status order.Status `json:"status" binding:"required"`
}

type orderResponse struct {
	*order.Order
	AmountDue decimal.Decimal `json:"amountDue"`
}

func newOrderResponse(o *order.Order) orderResponse {
	return orderResponse{Order: o, AmountDue: o.AmountDue()}
}

// Checkout submits the session cart. Customer fields are validated by the
// order service.
func (h *Handlers) Checkout(c *gin.Context) {
	var input checkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	o, err := h.Orders.Checkout(c.Request.Context(), sessionID(c), *input.Customer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newOrderResponse(o))
}

func (h *Handlers) GetOrder(c *gin.Context) {
	o, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(o))
}

func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	o, err := h.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(o))
}
