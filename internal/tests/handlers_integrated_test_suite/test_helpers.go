package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	api "github.com/rogerio-castellano/shelf-locator/internal/http"
	"github.com/rogerio-castellano/shelf-locator/internal/repo"
)

var (
	productRepo *repo.PostgresProductRepository
	database    *sql.DB
)

func clearAllProducts() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "TRUNCATE TABLE product_lists RESTART IDENTITY")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate product_lists table: %w", err))
	}
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
