// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/itinera-labs/itinera-tui/internal/model"
)

func testSessions() []*model.Session {
	s1 := model.NewSession("u1")
	s1.Name = "Tokyo trip"
	s1.Messages = []model.Message{
		{ID: "m1", Role: model.RoleUser, Content: "Plan a week in Tokyo", Timestamp: time.UnixMilli(1000)},
		{ID: "m2", Role: model.RoleAssistant, Content: "Here is a Tokyo itinerary", Timestamp: time.UnixMilli(2000)},
	}
	s2 := model.NewSession("u1")
	s2.Name = "Lisbon trip"
	s2.Messages = []model.Message{
		{ID: "m3", Role: model.RoleUser, Content: "Best pasteis in Lisbon?", Timestamp: time.UnixMilli(3000)},
	}
	return []*model.Session{s1, s2}
}

func openTestIndex(t *testing.T) *SearchIndex {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "search.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestRebuildAndSearch(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	if err := ix.Rebuild(ctx, testSessions()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	count, _ := ix.Stats()
	if count != 3 {
		t.Errorf("Stats count = %d, want 3", count)
	}

	results, err := ix.Search(ctx, "tokyo", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Newest first.
	if results[0].MessageID != "m2" || results[1].MessageID != "m1" {
		t.Errorf("unexpected order: %s, %s", results[0].MessageID, results[1].MessageID)
	}
	if results[0].SessionName != "Tokyo trip" {
		t.Errorf("SessionName = %q", results[0].SessionName)
	}
}

func TestRebuildReplacesContents(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	if err := ix.Rebuild(ctx, testSessions()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if err := ix.Rebuild(ctx, nil); err != nil {
		t.Fatalf("Rebuild empty: %v", err)
	}
	results, err := ix.Search(ctx, "tokyo", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results after empty rebuild, want 0", len(results))
	}
}

func TestSearchLiteralWildcards(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	s := model.NewSession("u1")
	s.Messages = []model.Message{
		{ID: "a", Role: model.RoleUser, Content: "100% humidity", Timestamp: time.UnixMilli(1)},
		{ID: "b", Role: model.RoleUser, Content: "100 degrees", Timestamp: time.UnixMilli(2)},
	}
	if err := ix.Rebuild(ctx, []*model.Session{s}); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	results, err := ix.Search(ctx, "100%", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].MessageID != "a" {
		t.Errorf("percent not matched literally: %+v", results)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := openTestIndex(t)
	results, err := ix.Search(context.Background(), "   ", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results for blank query")
	}
}

func TestClosedIndex(t *testing.T) {
	ix := openTestIndex(t)
	ix.Close()
	if _, err := ix.Search(context.Background(), "x", 1); err != ErrClosed {
		t.Errorf("Search after Close: err = %v, want ErrClosed", err)
	}
	if err := ix.Rebuild(context.Background(), nil); err != ErrClosed {
		t.Errorf("Rebuild after Close: err = %v, want ErrClosed", err)
	}
}
