package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"restman-system/internal/drafts"
	"restman-system/internal/gateway/clients"
	"restman-system/internal/orders"
)

type TokenHTTPHandler struct {
	backend *clients.BackendClient
	drafts  drafts.Store
	taxRate decimal.Decimal
}

func NewTokenHTTPHandler(backend *clients.BackendClient, draftStore drafts.Store, taxRate decimal.Decimal) *TokenHTTPHandler {
	return &TokenHTTPHandler{backend: backend, drafts: draftStore, taxRate: taxRate}
}

type GenerateTokensRequest struct {
	Forms []orders.TableForm `json:"forms" binding:"required"`
}

// FormResult is the per-table outcome of a generate request.
type FormResult struct {
	FormID      string                 `json:"formId"`
	TableNumber string                 `json:"tableNumber"`
	Totals      orders.FormattedTotals `json:"totals"`
	Success     bool                   `json:"success"`
	Message     string                 `json:"message,omitempty"`
	Document    *clients.Document      `json:"document,omitempty"`
}

// GenerateTokens validates every table form, then submits them one by one.
// Validation failures never reach the backend. Totals are computed here so
// the receipt the client shows matches what the calculator would print.
func (h *TokenHTTPHandler) GenerateTokens(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	var req GenerateTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	if err := orders.ValidateForGenerate(req.Forms); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	results := make([]FormResult, 0, len(req.Forms))
	allSucceeded := true
	for _, form := range req.Forms {
		result := FormResult{
			FormID:      form.ID,
			TableNumber: form.TableNumber,
			Totals:      orders.CalculateTotals(form.Items, h.taxRate).Formatted(),
		}

		doc, err := h.backend.GenerateToken(ctx, sess.BackendToken, form)
		if err != nil {
			allSucceeded = false
			result.Message = userMessage(err)
		} else {
			result.Success = true
			result.Document = doc
		}
		results = append(results, result)
	}

	if !allSucceeded {
		c.JSON(http.StatusOK, APIResponse{
			Success: false,
			Message: "Some tokens failed to generate",
			Data:    gin.H{"results": results},
		})
		return
	}

	// The whole order went through, so the saved draft is spent.
	_ = h.drafts.Delete(c.Request.Context(), sess.ID)

	c.JSON(http.StatusOK, successResponse(
		fmt.Sprintf("%d tokens generated successfully!", len(req.Forms)),
		gin.H{"results": results},
	))
}

func (h *TokenHTTPHandler) TokensByDate(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	year, month, day := c.Param("year"), c.Param("month"), c.Param("day")
	for _, part := range []string{year, month, day} {
		if _, err := strconv.Atoi(part); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid date"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	tokens, err := h.backend.TokensByDate(ctx, sess.BackendToken, year, month, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Tokens retrieved successfully", tokens))
}

func (h *TokenHTTPHandler) MyTokens(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	tokens, err := h.backend.MyTokens(ctx, sess.BackendToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Tokens retrieved successfully", tokens))
}

// userMessage converts a call error into the text shown inside a per-form
// result, mirroring respondError's taxonomy.
func userMessage(err error) string {
	var ue *clients.UpstreamError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return networkErrorMessage
}
