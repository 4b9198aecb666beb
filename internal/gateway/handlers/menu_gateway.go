package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"restman-system/internal/gateway/clients"
	"restman-system/internal/orders"
)

const (
	MENU_CACHE_PREFIX = "menu:"
	MENU_CACHE_TTL    = 5 * time.Minute
)

type MenuHTTPHandler struct {
	backend *clients.BackendClient
	// rdb may be nil, which disables caching.
	rdb *redis.Client
}

func NewMenuHTTPHandler(backend *clients.BackendClient, rdb *redis.Client) *MenuHTTPHandler {
	return &MenuHTTPHandler{backend: backend, rdb: rdb}
}

type SaveMenuRequest struct {
	Items []orders.MenuItem `json:"items" binding:"required"`
}

func (h *MenuHTTPHandler) cacheKey(sessionID string) string {
	return MENU_CACHE_PREFIX + sessionID
}

func (h *MenuHTTPHandler) cachedMenu(ctx context.Context, sessionID string) ([]orders.MenuItem, bool) {
	if h.rdb == nil {
		return nil, false
	}
	data, err := h.rdb.Get(ctx, h.cacheKey(sessionID)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []orders.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (h *MenuHTTPHandler) cacheMenu(ctx context.Context, sessionID string, items []orders.MenuItem) {
	if h.rdb == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	_ = h.rdb.Set(ctx, h.cacheKey(sessionID), data, MENU_CACHE_TTL).Err()
}

func (h *MenuHTTPHandler) invalidateMenu(ctx context.Context, sessionID string) {
	if h.rdb == nil {
		return
	}
	_ = h.rdb.Del(ctx, h.cacheKey(sessionID)).Err()
}

func (h *MenuHTTPHandler) GetMenu(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	if items, ok := h.cachedMenu(c.Request.Context(), sess.ID); ok {
		c.JSON(http.StatusOK, successResponse("Menu retrieved successfully", gin.H{"items": items}))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	menu, err := h.backend.GetMenu(ctx, sess.BackendToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cacheMenu(c.Request.Context(), sess.ID, menu.Items)
	c.JSON(http.StatusOK, successResponse("Menu retrieved successfully", gin.H{"items": menu.Items}))
}

func (h *MenuHTTPHandler) CreateMenu(c *gin.Context) {
	h.saveMenu(c, h.backend.CreateMenu)
}

func (h *MenuHTTPHandler) UpdateMenu(c *gin.Context) {
	h.saveMenu(c, h.backend.UpdateMenu)
}

// saveMenu validates the submitted rows before any network call fires, then
// pushes them upstream and refetches the authoritative copy rather than
// trusting the local one.
func (h *MenuHTTPHandler) saveMenu(c *gin.Context, push func(context.Context, string, []orders.MenuItem) (*clients.MessageResponse, error)) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	var req SaveMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	if err := orders.ValidateMenuItems(req.Items); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	resp, err := push(ctx, sess.BackendToken, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateMenu(c.Request.Context(), sess.ID)

	menu, err := h.backend.GetMenu(ctx, sess.BackendToken)
	if err != nil {
		// The save itself succeeded; report that even if the refetch failed.
		c.JSON(http.StatusOK, successResponse(messageOr(resp.Message, "Menu saved successfully"), nil))
		return
	}
	h.cacheMenu(c.Request.Context(), sess.ID, menu.Items)

	c.JSON(http.StatusOK, successResponse(messageOr(resp.Message, "Menu saved successfully"), gin.H{"items": menu.Items}))
}
