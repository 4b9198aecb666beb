package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"restman-system/internal/gateway/clients"
	"restman-system/internal/gateway/middleware"
	"restman-system/internal/orders"
	"restman-system/internal/session"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

// networkErrorMessage is the one generic retry prompt shown for every
// no-response failure; the gateway does not distinguish timeouts from
// refused connections.
const networkErrorMessage = "Network error. Please try again."

// respondError maps the error taxonomy onto HTTP responses: validation
// errors become 400s with their own message, upstream domain errors keep
// the server's status and text verbatim, and transport failures collapse
// into the generic retry prompt.
func respondError(c *gin.Context, err error) {
	var verr *orders.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, errorResponse(verr.Message))
		return
	}

	var ue *clients.UpstreamError
	if errors.As(err, &ue) {
		c.JSON(ue.StatusCode, errorResponse(ue.Message))
		return
	}

	if errors.Is(err, clients.ErrBackendUnreachable) {
		c.JSON(http.StatusBadGateway, errorResponse(networkErrorMessage))
		return
	}

	c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
}

func mustSession(c *gin.Context) (session.Session, bool) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Authorization token required"))
		return session.Session{}, false
	}
	return sess, true
}
