package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	handler "github.com/rogerio-castellano/shelf-locator/internal/http/handlers"
	"github.com/rogerio-castellano/shelf-locator/internal/models"
	"github.com/rogerio-castellano/shelf-locator/internal/resolver"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestGetProductListByPosHandler_Found(t *testing.T) {
	t.Cleanup(clearAllProducts)
	seedParacetamol()
	r := newRouter()

	w := postLookup(r, "/getProductListByPos", handler.LookupRequest{Pos: "A02-D01"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var resp resolver.Result
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.ProductList != "Paracetamol" {
		t.Errorf("expected product_list 'Paracetamol', got %q", resp.ProductList)
	}
	if resp.Pos != "A02-D01" {
		t.Errorf("expected pos 'A02-D01', got %q", resp.Pos)
	}
	if resp.Quantity != "10" {
		t.Errorf("expected quantity '10', got %q", resp.Quantity)
	}
	if resp.ID == "" {
		t.Error("expected _id to be set")
	}
}

func TestGetProductListByPosHandler_NotFoundEchoesPos(t *testing.T) {
	t.Cleanup(clearAllProducts)
	seedParacetamol()
	r := newRouter()

	w := postLookup(r, "/getProductListByPos", handler.LookupRequest{Pos: "Z99-Z99"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 Not Found, got %d", w.Code)
	}

	var resp handler.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Pos != "Z99-Z99" {
		t.Errorf("expected pos 'Z99-Z99' echoed, got %q", resp.Pos)
	}
	if resp.Message != "Product not found" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestGetProductListByPosHandler_Defaults(t *testing.T) {
	t.Cleanup(clearAllProducts)
	productRepo.Upsert(t.Context(), models.ProductRecord{Pos: "B05-A01"})
	r := newRouter()

	w := postLookup(r, "/getProductListByPos", handler.LookupRequest{Pos: "B05-A01"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	for _, field := range []string{"code", "product_list", "quantity"} {
		if resp[field] != resolver.DefaultPlaceholder {
			t.Errorf("expected %s to default to %q, got %q", field, resolver.DefaultPlaceholder, resp[field])
		}
	}
	if resp["position"] != "B05-A01" {
		t.Errorf("expected position to fall back to pos, got %q", resp["position"])
	}
}

func TestGetProductListByCodeHandler(t *testing.T) {
	t.Cleanup(clearAllProducts)
	seedParacetamol()
	r := newRouter()

	tests := []struct {
		name       string
		body       any
		expectCode int
		expectPos  string
		expectMsg  string
	}{
		{"Known code", handler.LookupRequest{Code: "X1"}, http.StatusOK, "A02-D01", ""},
		{"Unknown code", handler.LookupRequest{Code: "NOPE"}, http.StatusNotFound, "", "Product not found"},
		{"Missing code", map[string]string{}, http.StatusBadRequest, "", "code parameter is required"},
		{"Blank code", handler.LookupRequest{Code: "   "}, http.StatusBadRequest, "", "code parameter is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postLookup(r, "/getProductListByCode", tt.body)

			if w.Code != tt.expectCode {
				t.Fatalf("expected status %d, got %d", tt.expectCode, w.Code)
			}

			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if tt.expectPos != "" && resp["pos"] != tt.expectPos {
				t.Errorf("expected pos %q, got %q", tt.expectPos, resp["pos"])
			}
			if tt.expectMsg != "" && resp["message"] != tt.expectMsg {
				t.Errorf("expected message %q, got %q", tt.expectMsg, resp["message"])
			}
		})
	}
}

func TestGetProductListByCodeHandler_NotFoundEchoesCode(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	w := postLookup(r, "/getProductListByCode", handler.LookupRequest{Code: "NOPE"})

	var resp handler.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Code != "NOPE" {
		t.Errorf("expected code 'NOPE' echoed, got %q", resp.Code)
	}
	if resp.Pos != "" {
		t.Errorf("expected no pos in a code miss, got %q", resp.Pos)
	}
}

func TestGetProductListByCodeHandler_Idempotent(t *testing.T) {
	t.Cleanup(clearAllProducts)
	seedParacetamol()
	r := newRouter()

	first := postLookup(r, "/getProductListByCode", handler.LookupRequest{Code: "X1"})
	second := postLookup(r, "/getProductListByCode", handler.LookupRequest{Code: "X1"})

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200 twice, got %d and %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("expected identical bodies, got %q and %q", first.Body.String(), second.Body.String())
	}
}

func TestLookupHandlers_MalformedJSON(t *testing.T) {
	r := newRouter()

	for _, path := range []string{"/getProductListByPos", "/getProductListByCode"} {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{pos: "A02-D01"`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400 Bad Request, got %d", path, w.Code)
		}
	}
}

func TestLookupHandlers_StoreFailure(t *testing.T) {
	t.Cleanup(clearAllProducts)
	handler.SetResolver(resolver.New(failingRepo{}))
	r := newRouter()

	w := postLookup(r, "/getProductListByPos", handler.LookupRequest{Pos: "A02-D01"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var resp handler.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Message != "Error fetching product list" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Error != "connection refused" {
		t.Errorf("expected underlying error, got %q", resp.Error)
	}

	w = get(r, "/getAllProductLists")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 listing products, got %d", w.Code)
	}
}

func TestSearchProductByCodeHandler(t *testing.T) {
	t.Cleanup(clearAllProducts)
	seedParacetamol()
	r := newRouter()

	w := get(r, "/search?code=X1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var record models.ProductRecord
	if err := json.NewDecoder(w.Body).Decode(&record); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if record.Pos != "A02-D01" {
		t.Errorf("expected pos 'A02-D01', got %q", record.Pos)
	}

	if w := get(r, "/search"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a missing code, got %d", w.Code)
	}
	if w := get(r, "/search?code=NOPE"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown code, got %d", w.Code)
	}
}

func TestGetAllProductListsHandler(t *testing.T) {
	t.Cleanup(clearAllProducts)
	seedParacetamol()
	productRepo.Upsert(t.Context(), models.ProductRecord{Pos: "A01-A01", Code: "X2"})
	r := newRouter()

	w := get(r, "/getAllProductLists")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var records []models.ProductRecord
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Pos != "A02-D01" || records[1].Pos != "A01-A01" {
		t.Errorf("unexpected order: %q, %q", records[0].Pos, records[1].Pos)
	}
}

func TestGetAllProductListsHandler_LogsFirstRecordFields(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	handler.SetLogger(log)
	t.Cleanup(func() {
		quiet, _ := test.NewNullLogger()
		handler.SetLogger(quiet)
		clearAllProducts()
	})
	seedParacetamol()
	productRepo.Upsert(t.Context(), models.ProductRecord{Pos: "A01-A01", Code: "X2"})

	if w := get(newRouter(), "/getAllProductLists"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Message != "fetched all product lists" {
		t.Fatalf("expected a listing log entry, got %v", entry)
	}
	if entry.Data["count"] != 2 {
		t.Errorf("expected count 2, got %v", entry.Data["count"])
	}
	want := []string{"_id", "code", "product_list", "quantity", "pos"}
	got, _ := entry.Data["fields"].([]string)
	if !slices.Equal(got, want) {
		t.Errorf("expected fields %v, got %v", want, got)
	}
	if _, ok := entry.Data["sample_pos"]; ok {
		t.Error("expected no record values in the log entry")
	}
}

func TestAPIPrefixServesSameRoutes(t *testing.T) {
	t.Cleanup(clearAllProducts)
	seedParacetamol()
	r := newRouter()

	plain := postLookup(r, "/getProductListByPos", handler.LookupRequest{Pos: "A02-D01"})
	prefixed := postLookup(r, "/api/getProductListByPos", handler.LookupRequest{Pos: "A02-D01"})

	if prefixed.Code != http.StatusOK {
		t.Fatalf("expected 200 under /api, got %d", prefixed.Code)
	}
	if plain.Body.String() != prefixed.Body.String() {
		t.Errorf("expected identical responses, got %q and %q", plain.Body.String(), prefixed.Body.String())
	}
}

func TestHealthAndLayout(t *testing.T) {
	r := newRouter()

	w := get(r, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var health handler.HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("expected status ok, got %q", health.Status)
	}

	w = get(r, "/layout")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK for layout, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"A02"`)) {
		t.Errorf("expected layout to list shelf A02, got %s", w.Body.String())
	}
}
