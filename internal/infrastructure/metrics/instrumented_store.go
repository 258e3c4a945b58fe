package metrics

import (
	"context"
	"io"
	"time"

	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/domain/repository"
)

// InstrumentedStore counts and times every call to the wrapped store
type InstrumentedStore struct {
	next    repository.RecordStore
	metrics *Metrics
}

func InstrumentStore(next repository.RecordStore, m *Metrics) repository.RecordStore {
	if m == nil {
		return next
	}
	return &InstrumentedStore{next: next, metrics: m}
}

func (s *InstrumentedStore) List(ctx context.Context, c entity.Collection, out interface{}, opts ...repository.ListOption) (err error) {
	defer s.observe(c, "list", time.Now(), &err)
	return s.next.List(ctx, c, out, opts...)
}

func (s *InstrumentedStore) Insert(ctx context.Context, c entity.Collection, rec entity.Record) (err error) {
	defer s.observe(c, "insert", time.Now(), &err)
	return s.next.Insert(ctx, c, rec)
}

func (s *InstrumentedStore) Patch(ctx context.Context, c entity.Collection, id string, fields map[string]interface{}) (err error) {
	defer s.observe(c, "patch", time.Now(), &err)
	return s.next.Patch(ctx, c, id, fields)
}

func (s *InstrumentedStore) Delete(ctx context.Context, c entity.Collection, id string) (err error) {
	defer s.observe(c, "delete", time.Now(), &err)
	return s.next.Delete(ctx, c, id)
}

func (s *InstrumentedStore) FindBy(ctx context.Context, c entity.Collection, filter map[string]string, out interface{}) (err error) {
	defer s.observe(c, "find_by", time.Now(), &err)
	return s.next.FindBy(ctx, c, filter, out)
}

// Close closes the wrapped store when it holds a connection pool
func (s *InstrumentedStore) Close() error {
	if closer, ok := s.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s *InstrumentedStore) observe(c entity.Collection, operation string, start time.Time, err *error) {
	s.metrics.ObserveStore(string(c), operation, start, *err)
}
