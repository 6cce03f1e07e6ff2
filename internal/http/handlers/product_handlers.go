package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/shelf-locator/internal/metrics"
	"github.com/rogerio-castellano/shelf-locator/internal/models"
	"github.com/rogerio-castellano/shelf-locator/internal/repo"
	"github.com/rogerio-castellano/shelf-locator/internal/resolver"
	"github.com/sirupsen/logrus"
)

const (
	msgNotFound    = "Product not found"
	msgFetchFailed = "Error fetching product list"
	msgInvalidBody = "invalid input"
)

// SearchProductByCodeHandler godoc
// @Summary Find the stored record for a product code
// @Tags products
// @Produce json
// @Param code query string true "Product code"
// @Success 200 {object} models.ProductRecord
// @Failure 400 {object} ErrorResponse "Missing code"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Store error"
// @Router /search [get]
func SearchProductByCodeHandler(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	product, err := productResolver.Find(r.Context(), repo.FieldCode, code)
	if err != nil {
		writeLookupError(w, repo.FieldCode, code, err)
		return
	}
	observeLookup(string(repo.FieldCode), metrics.OutcomeFound)
	respond(w, http.StatusOK, product)
}

// GetProductListByPosHandler godoc
// @Summary Get product list by position
// @Tags products
// @Accept json
// @Produce json
// @Param body body LookupRequest true "Position to look up"
// @Success 200 {object} resolver.Result
// @Failure 400 {object} ErrorResponse "Missing pos"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Store error"
// @Router /getProductListByPos [post]
func GetProductListByPosHandler(w http.ResponseWriter, r *http.Request) {
	resolveFromBody(w, r, repo.FieldPos)
}

// GetProductListByCodeHandler godoc
// @Summary Get product list by product code
// @Tags products
// @Accept json
// @Produce json
// @Param body body LookupRequest true "Code to look up"
// @Success 200 {object} resolver.Result
// @Failure 400 {object} ErrorResponse "Missing code"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Store error"
// @Router /getProductListByCode [post]
func GetProductListByCodeHandler(w http.ResponseWriter, r *http.Request) {
	resolveFromBody(w, r, repo.FieldCode)
}

func resolveFromBody(w http.ResponseWriter, r *http.Request, field repo.Field) {
	var req LookupRequest
	if err := readJSON(w, r, &req); err != nil {
		observeLookup(string(field), metrics.OutcomeInvalid)
		respond(w, http.StatusBadRequest, ErrorResponse{Message: msgInvalidBody})
		return
	}

	key := req.Pos
	if field == repo.FieldCode {
		key = req.Code
	}

	result, err := productResolver.Resolve(r.Context(), field, key)
	if err != nil {
		writeLookupError(w, field, key, err)
		return
	}

	logger.WithFields(logrus.Fields{"field": field, "key": key, "pos": result.Pos}).Debug("product resolved")
	observeLookup(string(field), metrics.OutcomeFound)
	respond(w, http.StatusOK, result)
}

// writeLookupError maps resolver errors onto status codes: validation 400,
// not found 404 echoing the key, anything else 500.
func writeLookupError(w http.ResponseWriter, field repo.Field, key string, err error) {
	var (
		ve *resolver.ValidationError
		nf *resolver.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		observeLookup(string(field), metrics.OutcomeInvalid)
		respond(w, http.StatusBadRequest, ErrorResponse{Message: ve.Error()})
	case errors.As(err, &nf):
		observeLookup(string(field), metrics.OutcomeNotFound)
		resp := ErrorResponse{Message: msgNotFound}
		if nf.Field == repo.FieldPos {
			resp.Pos = nf.Key
		} else {
			resp.Code = nf.Key
		}
		respond(w, http.StatusNotFound, resp)
	default:
		observeLookup(string(field), metrics.OutcomeError)
		logger.WithError(err).WithFields(logrus.Fields{"field": field, "key": key}).Error("product lookup failed")
		detail := err.Error()
		var se *resolver.StoreError
		if errors.As(err, &se) {
			detail = se.Err.Error()
		}
		respond(w, http.StatusInternalServerError, ErrorResponse{Message: msgFetchFailed, Error: detail})
	}
}

// GetAllProductListsHandler godoc
// @Summary List every stored product record
// @Tags products
// @Produce json
// @Success 200 {array} models.ProductRecord
// @Failure 500 {object} ErrorResponse "Store error"
// @Router /getAllProductLists [get]
func GetAllProductListsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productResolver.List(r.Context())
	if err != nil {
		logger.WithError(err).Error("listing product lists failed")
		respond(w, http.StatusInternalServerError, ErrorResponse{Message: "Error fetching product lists", Error: err.Error()})
		return
	}

	entry := logger.WithField("count", len(products))
	if len(products) > 0 {
		entry = entry.WithField("fields", fieldNames(products[0]))
	}
	entry.Debug("fetched all product lists")

	respond(w, http.StatusOK, products)
}

// fieldNames lists the JSON names of the fields set on p.
func fieldNames(p models.ProductRecord) []string {
	var names []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"_id", p.ID != ""},
		{"position", p.Position != ""},
		{"code", p.Code != ""},
		{"product_list", p.ProductList != ""},
		{"quantity", p.Quantity != nil},
		{"pos", p.Pos != ""},
	} {
		if f.set {
			names = append(names, f.name)
		}
	}
	return names
}

// GetLayoutHandler godoc
// @Summary Shelf layout used by the map view
// @Tags layout
// @Produce json
// @Success 200 {object} layout.Layout
// @Router /layout [get]
func GetLayoutHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, storeLayout)
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, HealthResponse{Status: "ok", Message: "Backend API is running"})
}
