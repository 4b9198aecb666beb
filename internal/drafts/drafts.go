// Package drafts persists the in-progress multi-table order per session so
// a reload on the client does not lose half-entered data.
package drafts

import (
	"context"
	"errors"
	"time"

	"restman-system/internal/orders"
)

var (
	ErrNotFound = errors.New("draft not found")
	// ErrStaleRevision means the caller built its save on top of an older
	// copy of the draft. Without this fence a slow in-flight save could
	// overwrite fresher state.
	ErrStaleRevision = errors.New("draft revision is stale")
)

type Draft struct {
	SessionID string             `json:"sessionId"`
	Revision  int64              `json:"revision"`
	Forms     []orders.TableForm `json:"forms"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// NewDraft returns the initial draft for a session: one empty table form at
// revision 1.
func NewDraft(sessionID string) Draft {
	return Draft{
		SessionID: sessionID,
		Revision:  1,
		Forms:     []orders.TableForm{orders.NewTableForm()},
		UpdatedAt: time.Now(),
	}
}

type Store interface {
	Get(ctx context.Context, sessionID string) (Draft, error)
	// Save accepts a draft only when its revision is exactly one past the
	// stored revision (or 1 when no draft exists yet).
	Save(ctx context.Context, d Draft) error
	Delete(ctx context.Context, sessionID string) error
}

// checkRevision applies the fencing rule shared by both store
// implementations. Drafts have a single writer (their session), so a plain
// read-compare-write is sufficient.
func checkRevision(stored *Draft, incoming Draft) error {
	if stored == nil {
		if incoming.Revision != 1 {
			return ErrStaleRevision
		}
		return nil
	}
	if incoming.Revision != stored.Revision+1 {
		return ErrStaleRevision
	}
	return nil
}
