package store

import (
	"context"
	"fmt"
	"testing"

	"bitbucket.org/mmdatafocus/busops_backend/utils"
)

func TestScanAll_CursorPagination(t *testing.T) {
	rs := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("doc-%03d", i)
		_, err := rs.Create(ctx, "trips", id, map[string]string{
			"timestamp": fmt.Sprintf("%d", 1000+i),
		})
		if err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	docs, err := ScanAll(ctx, rs, "trips", Query{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 25 {
		t.Fatalf("expected 25 documents, got %d", len(docs))
	}
	seen := map[string]bool{}
	for _, doc := range docs {
		if seen[doc.ID] {
			t.Fatalf("duplicate document across pages: %s", doc.ID)
		}
		seen[doc.ID] = true
	}
	for i := 0; i < 25; i++ {
		if !seen[fmt.Sprintf("doc-%03d", i)] {
			t.Fatalf("missing document doc-%03d", i)
		}
	}
}

func TestList_EqualityAndRangeFilters(t *testing.T) {
	rs := NewMemoryStore()
	ctx := context.Background()

	seed := []struct {
		id, bus, ts string
	}{
		{"a", "BUS-001", "100"},
		{"b", "BUS-001", "200"},
		{"c", "BUS-002", "150"},
		{"d", "BUS-001", "300"},
	}
	for _, s := range seed {
		if _, err := rs.Create(ctx, "trips", s.id, map[string]string{"busNumber": s.bus, "timestamp": s.ts}); err != nil {
			t.Fatalf("create %s: %v", s.id, err)
		}
	}

	docs, err := rs.List(ctx, "trips", Query{
		Equals:     map[string]string{"busNumber": "BUS-001"},
		RangeField: "timestamp",
		GTE:        Int64Ptr(150),
		LTE:        Int64Ptr(250),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "b" {
		t.Fatalf("expected only doc b, got %+v", docs)
	}
}

func TestList_OrderByTimestampDescending(t *testing.T) {
	rs := NewMemoryStore()
	ctx := context.Background()

	for i, ts := range []string{"300", "100", "200"} {
		id := fmt.Sprintf("doc-%d", i)
		if _, err := rs.Create(ctx, "remittances", id, map[string]string{"timestamp": ts}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	docs, err := rs.List(ctx, "remittances", Query{OrderBy: "timestamp", Descending: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"300", "200", "100"} {
		if docs[i].Field("timestamp") != want {
			t.Fatalf("position %d: expected ts %s, got %s", i, want, docs[i].Field("timestamp"))
		}
	}
}

func TestUpdate_MergesFieldsAndRejectsUnknownID(t *testing.T) {
	rs := NewMemoryStore()
	ctx := context.Background()

	if _, err := rs.Create(ctx, "remittances", "r1", map[string]string{"status": "pending", "notes": "x"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	doc, err := rs.Update(ctx, "remittances", "r1", map[string]string{"status": "remitted"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if doc.Field("status") != "remitted" || doc.Field("notes") != "x" {
		t.Fatalf("update should merge fields, got %v", doc.Fields)
	}

	if _, err := rs.Update(ctx, "remittances", "nope", nil); err != utils.ErrorRecordNotFound {
		t.Fatalf("expected record not found, got %v", err)
	}
}
