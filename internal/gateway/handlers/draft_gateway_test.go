package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"restman-system/internal/drafts"
)

func draftRouter(store drafts.Store) *gin.Engine {
	h := NewDraftHTTPHandler(store)
	return testRouter(testSession(), func(r *gin.Engine) {
		r.GET("/drafts", h.Get)
		r.PUT("/drafts", h.Save)
		r.POST("/drafts/ops", h.ApplyOp)
		r.DELETE("/drafts", h.Delete)
	})
}

func decodeDraft(t *testing.T, resp APIResponse) drafts.Draft {
	t.Helper()
	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-marshal draft: %v", err)
	}
	var d drafts.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	return d
}

func TestGetDraftCreatesInitialDraft(t *testing.T) {
	r := draftRouter(drafts.NewMemoryStore())

	w, resp := doJSON(t, r, http.MethodGet, "/drafts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	d := decodeDraft(t, resp)
	if d.Revision != 1 {
		t.Errorf("revision = %d, want 1", d.Revision)
	}
	if len(d.Forms) != 1 || len(d.Forms[0].Items) != 1 {
		t.Errorf("initial draft should hold one form with one item, got %+v", d.Forms)
	}
}

func TestApplyOpEditsAndBumpsRevision(t *testing.T) {
	store := drafts.NewMemoryStore()
	r := draftRouter(store)

	_, resp := doJSON(t, r, http.MethodGet, "/drafts", nil)
	d := decodeDraft(t, resp)

	w, resp := doJSON(t, r, http.MethodPost, "/drafts/ops", gin.H{
		"revision": d.Revision,
		"op":       "update-item",
		"formId":   d.Forms[0].ID,
		"index":    0,
		"field":    "qty",
		"value":    "not-a-number",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %+v", w.Code, resp)
	}

	got := decodeDraft(t, resp)
	if got.Revision != d.Revision+1 {
		t.Errorf("revision = %d, want %d", got.Revision, d.Revision+1)
	}
	if got.Forms[0].Items[0].Qty != 1 {
		t.Errorf("qty = %d, want coerced default 1", got.Forms[0].Items[0].Qty)
	}
}

func TestApplyOpRejectsRemovingLastForm(t *testing.T) {
	r := draftRouter(drafts.NewMemoryStore())

	_, resp := doJSON(t, r, http.MethodGet, "/drafts", nil)
	d := decodeDraft(t, resp)

	w, resp := doJSON(t, r, http.MethodPost, "/drafts/ops", gin.H{
		"revision": d.Revision,
		"op":       "remove-form",
		"formId":   d.Forms[0].ID,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if resp.Message != "At least one form is required" {
		t.Errorf("message = %q", resp.Message)
	}

	// The stored draft is untouched.
	_, resp = doJSON(t, r, http.MethodGet, "/drafts", nil)
	got := decodeDraft(t, resp)
	if got.Revision != d.Revision || len(got.Forms) != 1 {
		t.Errorf("draft changed after rejected op: %+v", got)
	}
}

func TestSaveDraftRejectsStaleRevision(t *testing.T) {
	store := drafts.NewMemoryStore()
	r := draftRouter(store)

	_, resp := doJSON(t, r, http.MethodGet, "/drafts", nil)
	d := decodeDraft(t, resp)

	// First writer wins.
	w, _ := doJSON(t, r, http.MethodPut, "/drafts", gin.H{
		"revision": d.Revision + 1,
		"forms":    d.Forms,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("first save: status = %d", w.Code)
	}

	// Second writer, still on the old revision, loses.
	w, resp = doJSON(t, r, http.MethodPut, "/drafts", gin.H{
		"revision": d.Revision + 1,
		"forms":    d.Forms,
	})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
	if resp.Message != staleDraftMessage {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestDeleteDraft(t *testing.T) {
	store := drafts.NewMemoryStore()
	r := draftRouter(store)

	doJSON(t, r, http.MethodGet, "/drafts", nil)
	w, _ := doJSON(t, r, http.MethodDelete, "/drafts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	if _, err := store.Get(context.Background(), testSession().ID); err != drafts.ErrNotFound {
		t.Errorf("draft still present after delete: %v", err)
	}
}
