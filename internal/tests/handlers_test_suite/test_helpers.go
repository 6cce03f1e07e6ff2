package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/pkg/errors"
	api "github.com/rogerio-castellano/shelf-locator/internal/http"
	handler "github.com/rogerio-castellano/shelf-locator/internal/http/handlers"
	"github.com/rogerio-castellano/shelf-locator/internal/layout"
	"github.com/rogerio-castellano/shelf-locator/internal/models"
	"github.com/rogerio-castellano/shelf-locator/internal/repo"
	"github.com/rogerio-castellano/shelf-locator/internal/resolver"
	"github.com/sirupsen/logrus/hooks/test"
)

var productRepo *repo.InMemoryProductRepository

func init() {
	log, _ := test.NewNullLogger()
	handler.SetLogger(log)
	handler.SetLayout(layout.Default())
	setupTestRepo()
}

func setupTestRepo() {
	productRepo = repo.NewInMemoryProductRepository()
	handler.SetResolver(resolver.New(productRepo))
}

func clearAllProducts() {
	productRepo.Clear()
	handler.SetResolver(resolver.New(productRepo))
}

func seedParacetamol() {
	productRepo.Upsert(context.Background(), models.ProductRecord{
		Pos:         "A02-D01",
		Code:        "X1",
		ProductList: "Paracetamol",
		Quantity:    models.QuantityOf("10"),
	})
}

// failingRepo fails every call, standing in for an unreachable store.
type failingRepo struct{}

var errStoreDown = errors.New("connection refused")

func (failingRepo) FindOne(context.Context, repo.Field, string) (models.ProductRecord, error) {
	return models.ProductRecord{}, errStoreDown
}

func (failingRepo) GetAll(context.Context) ([]models.ProductRecord, error) {
	return nil, errStoreDown
}

func (failingRepo) Upsert(context.Context, models.ProductRecord) (bool, error) {
	return false, errStoreDown
}

func newRouter() http.Handler {
	return api.NewRouter(api.Options{})
}

func postLookup(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
