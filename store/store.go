// Package store is the boundary with the record store backing the dashboard.
// The engine only ever talks filter/sort/paginate/create/update primitives;
// every numeric field can come back string-encoded and must be parsed
// defensively by the caller, never trusted as a native number.
package store

import (
	"context"
	"time"
)

// RawDocument is one record as the store returns it: an opaque id, the
// server-assigned creation time and string-typed fields.
type RawDocument struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"createdAt"`
	Fields    map[string]string `json:"fields"`
}

func (d RawDocument) Field(name string) string {
	return d.Fields[name]
}

// Query expresses the listByEquality / listByRange / orderBy / limit /
// cursorAfter primitives in one shot. Range filtering is only supported on a
// collection's timestamp attribute (epoch milliseconds).
type Query struct {
	Equals      map[string]string
	RangeField  string
	GTE         *int64
	LTE         *int64
	OrderBy     string
	Descending  bool
	Limit       int
	CursorAfter string
}

type RecordStore interface {
	Get(ctx context.Context, collection string, id string) (RawDocument, error)
	List(ctx context.Context, collection string, q Query) ([]RawDocument, error)
	Create(ctx context.Context, collection string, id string, fields map[string]string) (RawDocument, error)
	Update(ctx context.Context, collection string, id string, fields map[string]string) (RawDocument, error)
}

// DefaultPageSize bounds a single List request, mirroring the store-side
// result cap.
const DefaultPageSize = 100

// ScanAll fetches every document matching q with cursor pagination: fetch a
// page, take the last id as the next cursor, stop when a page comes back
// short. Any full-collection read goes through here so no single request can
// blow the store's result-size limit.
func ScanAll(ctx context.Context, rs RecordStore, collection string, q Query) ([]RawDocument, error) {
	pageSize := q.Limit
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	// Cursor pagination walks ids, so a caller-supplied sort cannot be
	// honored page by page. Sorting stays with the caller.
	page := q
	page.Limit = pageSize
	page.OrderBy = ""
	page.Descending = false

	var all []RawDocument
	for {
		docs, err := rs.List(ctx, collection, page)
		if err != nil {
			return nil, err
		}
		all = append(all, docs...)
		if len(docs) < pageSize {
			return all, nil
		}
		page.CursorAfter = docs[len(docs)-1].ID
	}
}

func Int64Ptr(v int64) *int64 {
	return &v
}
