package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"bitbucket.org/mmdatafocus/busops_backend/utils"
)

// MemoryStore is the DB-free RecordStore used by package tests and local
// tooling. Semantics mirror MySQLStore: string fields, timestamp range on the
// "timestamp" attribute, id-ordered cursor pagination.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]RawDocument // collection -> insertion order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string][]RawDocument{}}
}

func (s *MemoryStore) Get(ctx context.Context, collection string, id string) (RawDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs[collection] {
		if doc.ID == id {
			return cloneDoc(doc), nil
		}
	}
	return RawDocument{}, utils.ErrorRecordNotFound
}

func (s *MemoryStore) List(ctx context.Context, collection string, q Query) ([]RawDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []RawDocument
	for _, doc := range s.docs[collection] {
		if !matches(doc, q) {
			continue
		}
		out = append(out, cloneDoc(doc))
	}

	if q.CursorAfter != "" || q.OrderBy == "" {
		// Same default as the MySQL adapter: id-ascending, so cursor pages
		// line up across requests.
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		idx := 0
		for idx < len(out) && out[idx].ID <= q.CursorAfter {
			idx++
		}
		out = out[idx:]
	} else {
		field := q.OrderBy
		sort.SliceStable(out, func(i, j int) bool {
			less := fieldLess(out[i], out[j], field)
			if q.Descending {
				return !less && fieldLess(out[j], out[i], field)
			}
			return less
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, collection string, id string, fields map[string]string) (RawDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	doc := RawDocument{
		ID:        id,
		CreatedAt: time.Now(),
		Fields:    cloneFields(fields),
	}
	s.docs[collection] = append(s.docs[collection], doc)
	return cloneDoc(doc), nil
}

func (s *MemoryStore) Update(ctx context.Context, collection string, id string, fields map[string]string) (RawDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, doc := range s.docs[collection] {
		if doc.ID != id {
			continue
		}
		for k, v := range fields {
			doc.Fields[k] = v
		}
		s.docs[collection][i] = doc
		return cloneDoc(doc), nil
	}
	return RawDocument{}, utils.ErrorRecordNotFound
}

func matches(doc RawDocument, q Query) bool {
	for field, want := range q.Equals {
		if doc.Field(field) != want {
			return false
		}
	}
	if q.GTE != nil || q.LTE != nil {
		ts, err := strconv.ParseInt(doc.Field("timestamp"), 10, 64)
		if err != nil {
			return false
		}
		if q.GTE != nil && ts < *q.GTE {
			return false
		}
		if q.LTE != nil && ts > *q.LTE {
			return false
		}
	}
	return true
}

func fieldLess(a, b RawDocument, field string) bool {
	av, bv := a.Field(field), b.Field(field)
	an, aerr := strconv.ParseInt(av, 10, 64)
	bn, berr := strconv.ParseInt(bv, 10, 64)
	if aerr == nil && berr == nil {
		return an < bn
	}
	return av < bv
}

func cloneDoc(doc RawDocument) RawDocument {
	doc.Fields = cloneFields(doc.Fields)
	return doc
}

func cloneFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
