package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"gold-economy/internal/store"
)

// ExerciseBlobStore runs the behaviour every store backend must share.
func ExerciseBlobStore(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "state"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Load(missing) err = %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, "state", []byte(`{"version":3}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "state", []byte(`{"version":3,"balance":5}`)); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	got, err := s.Load(ctx, "state")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !jsonEqual(got, `{"version":3,"balance":5}`) {
		t.Fatalf("Load = %s", got)
	}
	if err := s.Save(ctx, " ", []byte(`{}`)); err == nil {
		t.Fatalf("Save with blank key succeeded")
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

// jsonEqual compares JSON documents structurally, since JSONB columns
// normalise key order and spacing.
func jsonEqual(got []byte, want string) bool {
	var a, b any
	if err := json.Unmarshal(got, &a); err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(want), &b); err != nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}
