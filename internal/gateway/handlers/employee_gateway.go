package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restman-system/internal/gateway/clients"
)

// EmployeeHTTPHandler relays employee records between the admin client and
// the backend. The backend owns the schema; the gateway only supplies the
// credential and the error mapping.
type EmployeeHTTPHandler struct {
	backend *clients.BackendClient
}

func NewEmployeeHTTPHandler(backend *clients.BackendClient) *EmployeeHTTPHandler {
	return &EmployeeHTTPHandler{backend: backend}
}

type relayCall func(ctx context.Context, token string) (json.RawMessage, error)

func (h *EmployeeHTTPHandler) relay(c *gin.Context, message string, call relayCall) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	data, err := call(ctx, sess.BackendToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(message, data))
}

func (h *EmployeeHTTPHandler) bindBody(c *gin.Context) (json.RawMessage, bool) {
	var body json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return nil, false
	}
	return body, true
}

func (h *EmployeeHTTPHandler) List(c *gin.Context) {
	h.relay(c, "Employees retrieved successfully", func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.backend.ListEmployees(ctx, token)
	})
}

func (h *EmployeeHTTPHandler) Create(c *gin.Context) {
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	h.relay(c, "Employee created successfully", func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.backend.CreateEmployee(ctx, token, body)
	})
}

func (h *EmployeeHTTPHandler) Get(c *gin.Context) {
	id := c.Param("id")
	h.relay(c, "Employee retrieved successfully", func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.backend.GetEmployee(ctx, token, id)
	})
}

func (h *EmployeeHTTPHandler) Update(c *gin.Context) {
	id := c.Param("id")
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	h.relay(c, "Employee updated successfully", func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.backend.UpdateEmployee(ctx, token, id, body)
	})
}

func (h *EmployeeHTTPHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.relay(c, "Employee deleted successfully", func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.backend.DeleteEmployee(ctx, token, id)
	})
}

func (h *EmployeeHTTPHandler) AddLeave(c *gin.Context) {
	id := c.Param("id")
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	h.relay(c, "Leave recorded successfully", func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.backend.AddEmployeeLeave(ctx, token, id, body)
	})
}

func (h *EmployeeHTTPHandler) AddPayment(c *gin.Context) {
	id := c.Param("id")
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	h.relay(c, "Payment recorded successfully", func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.backend.AddEmployeePayment(ctx, token, id, body)
	})
}

func (h *EmployeeHTTPHandler) PaymentsReport(c *gin.Context) {
	id := c.Param("id")
	h.relay(c, "Payments report retrieved successfully", func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.backend.EmployeePaymentsReport(ctx, token, id)
	})
}

func (h *EmployeeHTTPHandler) LeavesReport(c *gin.Context) {
	id := c.Param("id")
	h.relay(c, "Leaves report retrieved successfully", func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.backend.EmployeeLeavesReport(ctx, token, id)
	})
}
