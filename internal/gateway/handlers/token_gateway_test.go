package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"restman-system/internal/drafts"
	"restman-system/internal/gateway/clients"
	"restman-system/internal/orders"
)

func tokenRouter(backendURL string, store drafts.Store) *gin.Engine {
	h := NewTokenHTTPHandler(clients.NewBackendClient(backendURL), store, orders.DefaultTaxRate)
	return testRouter(testSession(), func(r *gin.Engine) {
		r.POST("/tokens/generate", h.GenerateTokens)
	})
}

func generateForms(tableNumber string) []orders.TableForm {
	f := orders.NewTableForm()
	f.TableNumber = tableNumber
	forms, _ := orders.UpdateItem([]orders.TableForm{f}, f.ID, 0, "name", "Dal Fry")
	forms, _ = orders.UpdateItem(forms, f.ID, 0, "qty", "2")
	forms, _ = orders.UpdateItem(forms, f.ID, 0, "price", "100")
	return forms
}

func TestGenerateRejectsEmptyTableNumberWithoutNetworkCall(t *testing.T) {
	calls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer backend.Close()

	r := tokenRouter(backend.URL, drafts.NewMemoryStore())

	w, resp := doJSON(t, r, http.MethodPost, "/tokens/generate", gin.H{
		"forms": generateForms(""),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if resp.Message != "Please enter table number for all forms" {
		t.Errorf("message = %q", resp.Message)
	}
	if calls != 0 {
		t.Errorf("backend was called %d times, want 0", calls)
	}
}

func TestGenerateSubmitsEachFormAndClearsDraft(t *testing.T) {
	var received []orders.TableForm
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var form orders.TableForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			t.Errorf("decode form: %v", err)
		}
		received = append(received, form)
		json.NewEncoder(w).Encode(gin.H{"success": true})
	}))
	defer backend.Close()

	store := drafts.NewMemoryStore()
	sess := testSession()
	if err := store.Save(context.Background(), drafts.NewDraft(sess.ID)); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	r := tokenRouter(backend.URL, store)

	forms := append(generateForms("7"), generateForms("12")...)
	w, resp := doJSON(t, r, http.MethodPost, "/tokens/generate", gin.H{"forms": forms})
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d, resp = %+v", w.Code, resp)
	}
	if resp.Message != "2 tokens generated successfully!" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(received) != 2 {
		t.Fatalf("backend received %d forms, want 2", len(received))
	}
	if received[0].TableNumber != "7" || received[1].TableNumber != "12" {
		t.Errorf("forms arrived as %q and %q", received[0].TableNumber, received[1].TableNumber)
	}

	if _, err := store.Get(context.Background(), sess.ID); !errors.Is(err, drafts.ErrNotFound) {
		t.Errorf("draft should be cleared after full success, got %v", err)
	}
}

func TestGenerateReportsPartialFailureAndKeepsDraft(t *testing.T) {
	calls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(gin.H{"message": "Printer offline"})
			return
		}
		json.NewEncoder(w).Encode(gin.H{"success": true})
	}))
	defer backend.Close()

	store := drafts.NewMemoryStore()
	sess := testSession()
	if err := store.Save(context.Background(), drafts.NewDraft(sess.ID)); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	r := tokenRouter(backend.URL, store)

	forms := append(generateForms("7"), generateForms("12")...)
	w, resp := doJSON(t, r, http.MethodPost, "/tokens/generate", gin.H{"forms": forms})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if resp.Success {
		t.Error("partial failure must not report success")
	}
	if resp.Message != "Some tokens failed to generate" {
		t.Errorf("message = %q", resp.Message)
	}

	if _, err := store.Get(context.Background(), sess.ID); err != nil {
		t.Errorf("draft must survive a partial failure, got %v", err)
	}
}

func TestGenerateComputesTotalsPerForm(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gin.H{"success": true})
	}))
	defer backend.Close()

	r := tokenRouter(backend.URL, drafts.NewMemoryStore())

	// 2 x 100 + 1 x 50 = 250, tax 25.00, grand 275.00
	f := orders.NewTableForm()
	f.TableNumber = "3"
	forms := []orders.TableForm{f}
	forms, _ = orders.UpdateItem(forms, f.ID, 0, "name", "Dal Fry")
	forms, _ = orders.UpdateItem(forms, f.ID, 0, "qty", "2")
	forms, _ = orders.UpdateItem(forms, f.ID, 0, "price", "100")
	forms, _ = orders.AddItem(forms, f.ID)
	forms, _ = orders.UpdateItem(forms, f.ID, 1, "name", "Lassi")
	forms, _ = orders.UpdateItem(forms, f.ID, 1, "qty", "1")
	forms, _ = orders.UpdateItem(forms, f.ID, 1, "price", "50")

	w, _ := doJSON(t, r, http.MethodPost, "/tokens/generate", gin.H{"forms": forms})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Data struct {
			Results []FormResult `json:"results"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(body.Data.Results))
	}
	totals := body.Data.Results[0].Totals
	if totals.Subtotal != "250.00" || totals.Tax != "25.00" || totals.GrandTotal != "275.00" {
		t.Errorf("totals = %+v, want 250.00 / 25.00 / 275.00", totals)
	}
}
