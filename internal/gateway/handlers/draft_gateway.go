package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"restman-system/internal/drafts"
	"restman-system/internal/orders"
)

// DraftHTTPHandler keeps the in-progress multi-table order on the server so
// a page reload does not lose it. Editing can happen two ways: the client
// replaces the whole draft (PUT) or asks the gateway to apply a single
// editor operation (POST /ops). Both paths go through revision fencing.
type DraftHTTPHandler struct {
	store drafts.Store
}

func NewDraftHTTPHandler(store drafts.Store) *DraftHTTPHandler {
	return &DraftHTTPHandler{store: store}
}

type SaveDraftRequest struct {
	Revision int64              `json:"revision" binding:"required"`
	Forms    []orders.TableForm `json:"forms" binding:"required"`
}

type DraftOpRequest struct {
	Revision int64  `json:"revision" binding:"required"`
	Op       string `json:"op" binding:"required"`
	FormID   string `json:"formId,omitempty"`
	Index    int    `json:"index"`
	Field    string `json:"field,omitempty"`
	Value    string `json:"value,omitempty"`
}

const staleDraftMessage = "Draft was updated elsewhere. Reload before saving."

func (h *DraftHTTPHandler) Get(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	d, err := h.store.Get(c.Request.Context(), sess.ID)
	if errors.Is(err, drafts.ErrNotFound) {
		d = drafts.NewDraft(sess.ID)
		if err := h.store.Save(c.Request.Context(), d); err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to create draft"))
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load draft"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Draft retrieved successfully", d))
}

func (h *DraftHTTPHandler) Save(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	d := drafts.Draft{
		SessionID: sess.ID,
		Revision:  req.Revision,
		Forms:     req.Forms,
	}
	if err := h.store.Save(c.Request.Context(), d); err != nil {
		if errors.Is(err, drafts.ErrStaleRevision) {
			c.JSON(http.StatusConflict, errorResponse(staleDraftMessage))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to save draft"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Draft saved successfully", d))
}

// ApplyOp runs one editor operation against the stored draft. The request's
// revision must match the stored one, proving the client edited the copy it
// last saw.
func (h *DraftHTTPHandler) ApplyOp(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	var req DraftOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	d, err := h.store.Get(c.Request.Context(), sess.ID)
	if errors.Is(err, drafts.ErrNotFound) {
		d = drafts.NewDraft(sess.ID)
		if err := h.store.Save(c.Request.Context(), d); err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to create draft"))
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load draft"))
		return
	}

	if req.Revision != d.Revision {
		c.JSON(http.StatusConflict, errorResponse(staleDraftMessage))
		return
	}

	forms, err := applyDraftOp(d.Forms, req)
	if err != nil {
		respondError(c, err)
		return
	}

	d.Forms = forms
	d.Revision++
	if err := h.store.Save(c.Request.Context(), d); err != nil {
		if errors.Is(err, drafts.ErrStaleRevision) {
			c.JSON(http.StatusConflict, errorResponse(staleDraftMessage))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to save draft"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Draft updated successfully", d))
}

func (h *DraftHTTPHandler) Delete(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), sess.ID); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to clear draft"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Draft cleared", nil))
}

func applyDraftOp(forms []orders.TableForm, req DraftOpRequest) ([]orders.TableForm, error) {
	switch req.Op {
	case "add-form":
		return orders.AddForm(forms), nil
	case "remove-form":
		return orders.RemoveForm(forms, req.FormID)
	case "update-form":
		return orders.UpdateForm(forms, req.FormID, req.Field, req.Value)
	case "add-item":
		return orders.AddItem(forms, req.FormID)
	case "remove-item":
		return orders.RemoveItem(forms, req.FormID, req.Index)
	case "update-item":
		return orders.UpdateItem(forms, req.FormID, req.Index, req.Field, req.Value)
	default:
		return forms, &orders.ValidationError{Message: "Unknown draft operation: " + req.Op}
	}
}
