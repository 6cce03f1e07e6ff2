package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/rogerio-castellano/shelf-locator/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.ProductRecord
	nextID   int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository(records ...models.ProductRecord) *InMemoryProductRepository {
	r := &InMemoryProductRepository{
		products: []models.ProductRecord{},
		nextID:   1,
	}
	for _, rec := range records {
		r.add(rec)
	}
	return r
}

// NewInMemoryProductRepositoryFromFile seeds a repository from a JSON array
// of records, the same shape GET /getAllProductLists returns.
func NewInMemoryProductRepositoryFromFile(path string) (*InMemoryProductRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var records []models.ProductRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return NewInMemoryProductRepository(records...), nil
}

func (r *InMemoryProductRepository) add(rec models.ProductRecord) {
	if rec.ID == "" {
		rec.ID = strconv.Itoa(r.nextID)
		r.nextID++
	}
	r.products = append(r.products, rec)
}

// FindOne returns the first stored record matching key on field.
func (r *InMemoryProductRepository) FindOne(_ context.Context, field Field, key string) (models.ProductRecord, error) {
	if !field.Valid() {
		return models.ProductRecord{}, ErrUnknownField
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if matches(p, field, key) {
			return p, nil
		}
	}
	return models.ProductRecord{}, ErrProductNotFound
}

// GetAll retrieves a copy of all records in insertion order.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.ProductRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ProductRecord, len(r.products))
	copy(out, r.products)
	return out, nil
}

// Upsert replaces the record with the same Pos or appends a new one.
func (r *InMemoryProductRepository) Upsert(_ context.Context, record models.ProductRecord) (bool, error) {
	if record.Pos == "" {
		return false, ErrMissingPos
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.Pos == record.Pos {
			record.ID = p.ID
			r.products[i] = record
			return true, nil
		}
	}
	r.add(record)
	return false, nil
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.ProductRecord{}
	r.nextID = 1
}
