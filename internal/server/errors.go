package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authdomain "github.com/billhive/billhive/internal/auth/domain"
	debtdomain "github.com/billhive/billhive/internal/debt/domain"
	invoicedomain "github.com/billhive/billhive/internal/invoice/domain"
	saledomain "github.com/billhive/billhive/internal/sale/domain"
	stockdomain "github.com/billhive/billhive/internal/stock/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware turns errors recorded on the gin context into the
// JSON error envelope, after the handler chain ran.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// mapError translates domain errors to HTTP statuses. Messages carry the
// domain detail (offending item, violated constraint) but never storage
// internals.
func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, invoicedomain.ErrInvalidInput),
		errors.Is(err, stockdomain.ErrInvalidItem),
		errors.Is(err, debtdomain.ErrInvalidDebt),
		errors.Is(err, saledomain.ErrInvalidRange):
		return http.StatusBadRequest, errorPayload{Type: "invalid_request", Message: err.Error()}

	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: "unauthorized"}

	case errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, stockdomain.ErrItemNotFound),
		errors.Is(err, saledomain.ErrNoSales),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}

	case errors.Is(err, invoicedomain.ErrConflict),
		errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: "conflict, retry the request"}

	case errors.Is(err, stockdomain.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, errorPayload{Type: "insufficient_stock", Message: err.Error()}

	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}
