package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Package Builder Handlers (session scoped) ---
//

type openPackageInput struct {
	TemplateID string `json:"templateId" binding:"required"`
}

type selectionInput struct {
	Category string `json:"category" binding:"required"`
	OptionID string `json:"optionId" binding:"required"`
}

type adjustInput struct {
	Category string `json:"category" binding:"required"`
	OptionID string `json:"optionId" binding:"required"`
	Delta    *int   `json:"delta" binding:"required"`
}

func (h *Handlers) OpenPackage(c *gin.Context) {
	var input openPackageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	v, err := h.Packages.Open(c.Request.Context(), sessionID(c), input.TemplateID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *Handlers) GetPackageSession(c *gin.Context) {
	v, err := h.Packages.Get(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handlers) SelectOption(c *gin.Context) {
	var input selectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	v, err := h.Packages.Select(c.Request.Context(), sessionID(c), c.Param("id"), input.Category, input.OptionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handlers) AdjustOption(c *gin.Context) {
	var input adjustInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	v, err := h.Packages.Adjust(c.Request.Context(), sessionID(c), c.Param("id"), input.Category, input.OptionID, *input.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handlers) RemoveOption(c *gin.Context) {
	category, optionID := c.Query("category"), c.Query("optionId")
	if category == "" || optionID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
			Error: "category and optionId are required",
			Code:  CodeValidation,
		})
		return
	}

	v, err := h.Packages.Remove(c.Request.Context(), sessionID(c), c.Param("id"), category, optionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// FinalizePackage moves the completed package into the cart as one line.
func (h *Handlers) FinalizePackage(c *gin.Context) {
	line, err := h.Packages.Finalize(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *Handlers) CancelPackage(c *gin.Context) {
	if err := h.Packages.Cancel(c.Request.Context(), sessionID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
