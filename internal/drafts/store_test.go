package drafts

import (
	"context"
	"errors"
	"testing"

	"restman-system/internal/orders"
)

func TestSaveRequiresMonotonicRevision(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	d := NewDraft("sess-1")
	if err := store.Save(ctx, d); err != nil {
		t.Fatalf("initial save: %v", err)
	}

	// A second writer working from the same revision loses.
	stale := d
	if err := store.Save(ctx, stale); !errors.Is(err, ErrStaleRevision) {
		t.Errorf("save at same revision = %v, want ErrStaleRevision", err)
	}

	d.Revision++
	d.Forms = orders.AddForm(d.Forms)
	if err := store.Save(ctx, d); err != nil {
		t.Fatalf("save at next revision: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Revision != 2 || len(got.Forms) != 2 {
		t.Errorf("stored draft = rev %d with %d forms, want rev 2 with 2 forms", got.Revision, len(got.Forms))
	}
}

func TestSaveOfMissingDraftMustStartAtOne(t *testing.T) {
	store := NewMemoryStore()

	d := NewDraft("sess-2")
	d.Revision = 5
	if err := store.Save(context.Background(), d); !errors.Is(err, ErrStaleRevision) {
		t.Errorf("save of missing draft at revision 5 = %v, want ErrStaleRevision", err)
	}
}

func TestDeleteThenGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	d := NewDraft("sess-3")
	if err := store.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "sess-3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "sess-3"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
}
