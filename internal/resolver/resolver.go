// Package resolver turns a lookup key into a product record. Lookups by
// position and by product code share one code path parameterized by the
// field being matched.
package resolver

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rogerio-castellano/shelf-locator/internal/models"
	"github.com/rogerio-castellano/shelf-locator/internal/repo"
	"github.com/sirupsen/logrus"
)

// DefaultPlaceholder replaces fields that are absent in the store.
const DefaultPlaceholder = "unspecified"

// Result is a record with every field populated, the shape the lookup
// endpoints return.
type Result struct {
	ID          string `json:"_id"`
	Position    string `json:"position"`
	Pos         string `json:"pos"`
	Code        string `json:"code"`
	ProductList string `json:"product_list"`
	Quantity    string `json:"quantity"`
}

type Resolver struct {
	repo        repo.ProductRepository
	placeholder string
	log         logrus.FieldLogger
}

type Option func(*Resolver)

// WithPlaceholder sets the value substituted for absent fields, e.g. a
// localized "unspecified".
func WithPlaceholder(p string) Option {
	return func(r *Resolver) {
		if p != "" {
			r.placeholder = p
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

func New(store repo.ProductRepository, opts ...Option) *Resolver {
	r := &Resolver{
		repo:        store,
		placeholder: DefaultPlaceholder,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithField("component", "resolver")
	return r
}

func (r *Resolver) Placeholder() string {
	return r.placeholder
}

// Find returns the stored record matching key on field, without defaults.
func (r *Resolver) Find(ctx context.Context, field repo.Field, key string) (models.ProductRecord, error) {
	if !field.Valid() {
		return models.ProductRecord{}, errors.Wrapf(repo.ErrUnknownField, "lookup by %q", field)
	}
	if strings.TrimSpace(key) == "" {
		return models.ProductRecord{}, &ValidationError{Field: field}
	}

	p, err := r.repo.FindOne(ctx, field, key)
	if errors.Is(err, repo.ErrProductNotFound) {
		r.log.WithFields(logrus.Fields{"field": field, "key": key}).Debug("product not found")
		return models.ProductRecord{}, &NotFoundError{Field: field, Key: key}
	}
	if err != nil {
		r.log.WithError(err).WithField("field", field).Error("product lookup failed")
		return models.ProductRecord{}, &StoreError{Err: err}
	}
	return p, nil
}

// Resolve looks up key on field and fills every absent field.
func (r *Resolver) Resolve(ctx context.Context, field repo.Field, key string) (Result, error) {
	p, err := r.Find(ctx, field, key)
	if err != nil {
		return Result{}, err
	}
	return r.Defaults(p, field, key), nil
}

// List returns every stored record.
func (r *Resolver) List(ctx context.Context) ([]models.ProductRecord, error) {
	products, err := r.repo.GetAll(ctx)
	if err != nil {
		r.log.WithError(err).Error("listing products failed")
		return nil, &StoreError{Err: err}
	}
	return products, nil
}

// Defaults builds the response for a record found by field=key. The matched
// field always echoes the requested key. Quantity falls back to the
// placeholder only when absent; an empty stored quantity is kept.
func (r *Resolver) Defaults(p models.ProductRecord, field repo.Field, key string) Result {
	res := Result{
		ID:          p.ID,
		Code:        r.orPlaceholder(p.Code),
		ProductList: r.orPlaceholder(p.ProductList),
		Quantity:    r.placeholder,
	}
	if p.Quantity != nil {
		res.Quantity = *p.Quantity
	}

	switch field {
	case repo.FieldPos:
		res.Pos = key
	case repo.FieldCode:
		res.Code = key
		res.Pos = r.orPlaceholder(p.Pos)
	}

	res.Position = p.Position
	if res.Position == "" {
		res.Position = res.Pos
	}
	return res
}

func (r *Resolver) orPlaceholder(s string) string {
	if s == "" {
		return r.placeholder
	}
	return s
}
