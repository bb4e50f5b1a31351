package backup

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/z2hlabs/edudesk/internal/domain/core"
)

func TestSnapshotRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := core.NewStore(core.DemoState(now))
	before := store.Snapshot()

	doc, err := ExportSnapshot(before)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	fresh := core.NewStore(core.DefaultState())
	if err := ImportSnapshot(fresh, doc); err != nil {
		t.Fatalf("import: %v", err)
	}

	after := fresh.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("round-trip diverged:\nbefore: %+v\nafter:  %+v", before, after)
	}
}

func TestImportMalformedLeavesStoreUntouched(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := core.NewStore(core.DemoState(now))
	before := store.Snapshot()

	err := ImportSnapshot(store, []byte(`{"students": [`))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if !reflect.DeepEqual(before, store.Snapshot()) {
		t.Fatal("failed import mutated the store")
	}
}

func TestImportResetsIdentity(t *testing.T) {
	store := core.NewStore(core.DefaultState())
	store.Logout()

	doc, err := ExportSnapshot(core.DemoState(time.Now()))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := ImportSnapshot(store, doc); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := store.Snapshot().CurrentUserID; got != core.AdminUserID {
		t.Fatalf("current user = %q, want built-in admin", got)
	}
}
