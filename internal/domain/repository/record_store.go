package repository

import (
	"context"
	"errors"

	"klinik-sentosa/internal/domain/entity"
)

// ErrRecordNotFound is returned when an id does not exist in a collection
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateRecord is returned when an insert collides with an existing key
var ErrDuplicateRecord = errors.New("duplicate record")

// ListOptions tunes a read-all request
type ListOptions struct {
	SortBy string // wire field name
	Desc   bool
}

type ListOption func(*ListOptions)

// SortBy orders a read-all ascending by a wire field name
func SortBy(field string) ListOption {
	return func(o *ListOptions) {
		o.SortBy = field
	}
}

// SortByDesc orders a read-all descending by a wire field name
func SortByDesc(field string) ListOption {
	return func(o *ListOptions) {
		o.SortBy = field
		o.Desc = true
	}
}

// ApplyListOptions folds opts into a ListOptions value
func ApplyListOptions(opts ...ListOption) ListOptions {
	var o ListOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RecordStore is the data backend's generic per-collection interface.
//
// out arguments are pointers to a slice of the collection's entity type.
// Insert fills in the generated id on rec.
type RecordStore interface {
	List(ctx context.Context, c entity.Collection, out interface{}, opts ...ListOption) error
	Insert(ctx context.Context, c entity.Collection, rec entity.Record) error
	Patch(ctx context.Context, c entity.Collection, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, c entity.Collection, id string) error
	FindBy(ctx context.Context, c entity.Collection, filter map[string]string, out interface{}) error
}
