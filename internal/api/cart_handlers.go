package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Cart Handlers (session scoped) ---
//

type addItemInput struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateQuantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handlers) GetCart(c *gin.Context) {
	snap, err := h.Carts.GetCart(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handlers) AddToCart(c *gin.Context) {
	var input addItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	snap, err := h.Carts.AddItem(c.Request.Context(), sessionID(c), input.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (h *Handlers) UpdateCartItem(c *gin.Context) {
	var input updateQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	snap, err := h.Carts.UpdateQuantity(c.Request.Context(), sessionID(c), c.Param("id"), *input.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handlers) RemoveCartItem(c *gin.Context) {
	snap, err := h.Carts.RemoveItem(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handlers) ClearCart(c *gin.Context) {
	if err := h.Carts.Clear(c.Request.Context(), sessionID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PackageSavings reports list price minus charged price for a package line.
func (h *Handlers) PackageSavings(c *gin.Context) {
	savings, err := h.Carts.PackageSavings(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lineId": c.Param("id"), "savings": savings})
}
