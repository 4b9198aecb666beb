package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restman-system/internal/gateway/clients"
)

type DashboardHTTPHandler struct {
	backend *clients.BackendClient
}

func NewDashboardHTTPHandler(backend *clients.BackendClient) *DashboardHTTPHandler {
	return &DashboardHTTPHandler{backend: backend}
}

func (h *DashboardHTTPHandler) relay(c *gin.Context, message string, call func(ctx context.Context, token string) (json.RawMessage, error)) {
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

func (h *DashboardHTTPHandler) Stats(c *gin.Context) {
	h.relay(c, "Dashboard stats retrieved successfully", h.backend.DashboardStats)
}

func (h *DashboardHTTPHandler) PopularItems(c *gin.Context) {
	h.relay(c, "Popular items retrieved successfully", h.backend.PopularItems)
}

func (h *DashboardHTTPHandler) RecentActivity(c *gin.Context) {
	h.relay(c, "Recent activity retrieved successfully", h.backend.RecentActivity)
}
