package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/domain/repository"

	"github.com/google/uuid"
)

type document map[string]interface{}

type memoryCollection struct {
	order []string
	docs  map[string]document
}

// MemoryStore keeps every collection as JSON documents in process memory.
// Records keep their insertion order, like a json-server db.json file.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[entity.Collection]*memoryCollection
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		collections: make(map[entity.Collection]*memoryCollection),
	}
	for _, c := range entity.Collections() {
		s.collections[c] = &memoryCollection{docs: make(map[string]document)}
	}
	return s
}

func (s *MemoryStore) collection(c entity.Collection) (*memoryCollection, error) {
	col, ok := s.collections[c]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q: %w", c, repository.ErrRecordNotFound)
	}
	return col, nil
}

func (s *MemoryStore) List(ctx context.Context, c entity.Collection, out interface{}, opts ...repository.ListOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.collection(c)
	if err != nil {
		return err
	}

	docs := make([]document, 0, len(col.order))
	for _, id := range col.order {
		docs = append(docs, col.docs[id])
	}

	o := repository.ApplyListOptions(opts...)
	if o.SortBy != "" {
		sortDocuments(docs, o.SortBy, o.Desc)
	}

	return decodeDocuments(docs, out)
}

func (s *MemoryStore) Insert(ctx context.Context, c entity.Collection, rec entity.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.collection(c)
	if err != nil {
		return err
	}

	if rec.GetID() == "" {
		rec.SetID(uuid.NewString())
	}
	if _, exists := col.docs[rec.GetID()]; exists {
		return fmt.Errorf("insert %s/%s: %w", c, rec.GetID(), repository.ErrDuplicateRecord)
	}

	doc, err := toDocument(rec)
	if err != nil {
		return err
	}

	col.docs[rec.GetID()] = doc
	col.order = append(col.order, rec.GetID())
	return nil
}

func (s *MemoryStore) Patch(ctx context.Context, c entity.Collection, id string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.collection(c)
	if err != nil {
		return err
	}

	doc, ok := col.docs[id]
	if !ok {
		return fmt.Errorf("patch %s/%s: %w", c, id, repository.ErrRecordNotFound)
	}

	patch, err := toDocument(fields)
	if err != nil {
		return err
	}
	delete(patch, "id")

	updated := make(document, len(doc)+len(patch))
	for k, v := range doc {
		updated[k] = v
	}
	for k, v := range patch {
		updated[k] = v
	}
	col.docs[id] = updated
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, c entity.Collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.collection(c)
	if err != nil {
		return err
	}

	if _, ok := col.docs[id]; !ok {
		return fmt.Errorf("delete %s/%s: %w", c, id, repository.ErrRecordNotFound)
	}

	delete(col.docs, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) FindBy(ctx context.Context, c entity.Collection, filter map[string]string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.collection(c)
	if err != nil {
		return err
	}

	docs := make([]document, 0)
	for _, id := range col.order {
		doc := col.docs[id]
		if matches(doc, filter) {
			docs = append(docs, doc)
		}
	}

	return decodeDocuments(docs, out)
}

func matches(doc document, filter map[string]string) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok || formatValue(got) != want {
			return false
		}
	}
	return true
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func sortDocuments(docs []document, field string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		cmp := compareValues(docs[i][field], docs[j][field])
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

// compareValues orders numbers numerically and everything else by its
// string form
func compareValues(a, b interface{}) int {
	af, aNum := a.(float64)
	bf, bNum := b.(float64)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(formatValue(a), formatValue(b))
}

func toDocument(v interface{}) (document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return doc, nil
}

func decodeDocuments(docs []document, out interface{}) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode documents: %w", err)
	}
	return nil
}
