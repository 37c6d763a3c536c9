package api

import (
	"errors"
	"net/http"

	"ftour-be/internal/auth"
	"ftour-be/internal/cart"
	"ftour-be/internal/catalog"
	"ftour-be/internal/delivery"
	"ftour-be/internal/logger"
	"ftour-be/internal/order"
	"ftour-be/internal/packages"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Machine readable error codes returned next to the message.
const (
	CodeCapacityExceeded      = "CAPACITY_EXCEEDED"
	CodeIncompletePackage     = "INCOMPLETE_PACKAGE"
	CodeOrderingClosed        = "ORDERING_CLOSED"
	CodeOrderSubmissionFailed = "ORDER_SUBMISSION_FAILED"
	CodeEmptyCart             = "EMPTY_CART"
	CodeValidation            = "VALIDATION_ERROR"
	CodeNotFound              = "NOT_FOUND"
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeForbidden             = "FORBIDDEN"
	CodeConflict              = "CONFLICT"
	CodeInternal              = "INTERNAL_ERROR"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Category  string `json:"category,omitempty"`
	Capacity  int    `json:"capacity,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{packages.ErrCapacityExceeded, http.StatusConflict, CodeCapacityExceeded},
	{packages.ErrIncompletePackage, http.StatusConflict, CodeIncompletePackage},
	{delivery.ErrOrderingClosed, http.StatusForbidden, CodeOrderingClosed},
	{order.ErrOrderSubmissionFailed, http.StatusBadGateway, CodeOrderSubmissionFailed},
	{order.ErrEmptyCart, http.StatusBadRequest, CodeEmptyCart},

	{order.ErrInvalidCustomer, http.StatusBadRequest, CodeValidation},
	{order.ErrInvalidStatus, http.StatusBadRequest, CodeValidation},
	{cart.ErrInvalidQuantity, http.StatusBadRequest, CodeValidation},
	{cart.ErrInvalidLineID, http.StatusBadRequest, CodeValidation},
	{cart.ErrInvalidPrice, http.StatusBadRequest, CodeValidation},
	{packages.ErrUnknownCategory, http.StatusBadRequest, CodeValidation},
	{packages.ErrUnknownOption, http.StatusBadRequest, CodeValidation},

	{catalog.ErrProductNotFound, http.StatusNotFound, CodeNotFound},
	{catalog.ErrPackageNotFound, http.StatusNotFound, CodeNotFound},
	{cart.ErrLineNotFound, http.StatusNotFound, CodeNotFound},
	{packages.ErrBuilderNotFound, http.StatusNotFound, CodeNotFound},
	{packages.ErrSelectionNotFound, http.StatusNotFound, CodeNotFound},
	{order.ErrOrderNotFound, http.StatusNotFound, CodeNotFound},

	{cart.ErrMissingSession, http.StatusUnauthorized, CodeUnauthenticated},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthenticated},
	{auth.ErrAdminLoginDisabled, http.StatusForbidden, CodeForbidden},
	{order.ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthenticated},
	{order.ErrForbidden, http.StatusForbidden, CodeForbidden},

	{order.ErrInvalidStatusTransition, http.StatusConflict, CodeConflict},
	{order.ErrDuplicateOrder, http.StatusConflict, CodeConflict},
	{packages.ErrSessionClosed, http.StatusConflict, CodeConflict},
	{cart.ErrLineKindMismatch, http.StatusConflict, CodeConflict},
}

func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		body := errorResponse{Error: err.Error(), Code: m.code}

		var capErr *packages.CapacityError
		if errors.As(err, &capErr) {
			body.Category = capErr.Category
			body.Capacity = capErr.Capacity
		}
		var incomplete *packages.IncompleteError
		if errors.As(err, &incomplete) {
			remaining := incomplete.Remaining
			body.Remaining = &remaining
		}
		// Upstream detail stays in the logs.
		if m.status >= http.StatusInternalServerError {
			body.Error = m.target.Error()
		}

		c.AbortWithStatusJSON(m.status, body)
		return
	}

	logger.FromCtx(c.Request.Context()).Error("unhandled request error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
		Error: "internal server error",
		Code:  CodeInternal,
	})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Error: "invalid input: " + err.Error(),
		Code:  CodeValidation,
	})
}
