package repo

import (
	"context"
	"errors"
	"time"

	"github.com/rogerio-castellano/shelf-locator/internal/models"
)

// Field selects the record attribute a lookup matches against.
type Field string

const (
	FieldPos  Field = "pos"
	FieldCode Field = "code"
)

// Valid reports whether f is a field the stores know how to match on.
func (f Field) Valid() bool {
	return f == FieldPos || f == FieldCode
}

// ProductRepository defines the interface for product record storage.
type ProductRepository interface {
	// FindOne returns the first record whose field equals key exactly.
	FindOne(ctx context.Context, field Field, key string) (models.ProductRecord, error)
	GetAll(ctx context.Context) ([]models.ProductRecord, error)
	// Upsert inserts or replaces the record keyed by its Pos. It reports
	// whether an existing record was replaced.
	Upsert(ctx context.Context, record models.ProductRecord) (bool, error)
}

// ErrProductNotFound is returned when no record matches a lookup.
var ErrProductNotFound = errors.New("product not found")

// ErrUnknownField is returned for a lookup on an unsupported field.
var ErrUnknownField = errors.New("unknown lookup field")

// ErrMissingPos is returned when upserting a record without a position key.
var ErrMissingPos = errors.New("record has no pos")

const queryTimeout = 3 * time.Second

func matches(p models.ProductRecord, field Field, key string) bool {
	switch field {
	case FieldPos:
		return p.Pos == key
	case FieldCode:
		return p.Code == key
	}
	return false
}
