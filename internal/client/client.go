// Package client calls the shelf lookup API over HTTP.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rogerio-castellano/shelf-locator/internal/models"
	"github.com/rogerio-castellano/shelf-locator/internal/resolver"
)

// APIError is a non-2xx answer from the API. Message is the server's
// human-readable message.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Pos        string `json:"pos,omitempty"`
	Code       string `json:"code,omitempty"`
	Detail     string `json:"error,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func (e *APIError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

type Client struct {
	http *resty.Client
}

type Option func(*Client)

// WithToken sends token as a Bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.http.SetAuthToken(token)
		}
	}
}

// New builds a client for baseURL. Retries stay disabled: one request per
// user action.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ByPos calls POST /getProductListByPos.
func (c *Client) ByPos(ctx context.Context, pos string) (resolver.Result, error) {
	return c.lookup(ctx, "/getProductListByPos", map[string]string{"pos": pos})
}

// ByCode calls POST /getProductListByCode.
func (c *Client) ByCode(ctx context.Context, code string) (resolver.Result, error) {
	return c.lookup(ctx, "/getProductListByCode", map[string]string{"code": code})
}

func (c *Client) lookup(ctx context.Context, path string, body map[string]string) (resolver.Result, error) {
	var result resolver.Result
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&APIError{}).
		Post(path)
	if err := check(resp, err, path); err != nil {
		return resolver.Result{}, err
	}
	return result, nil
}

// Search calls GET /search and returns the stored record as-is.
func (c *Client) Search(ctx context.Context, code string) (models.ProductRecord, error) {
	var record models.ProductRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("code", code).
		SetResult(&record).
		SetError(&APIError{}).
		Get("/search")
	if err := check(resp, err, "/search"); err != nil {
		return models.ProductRecord{}, err
	}
	return record, nil
}

// All calls GET /getAllProductLists.
func (c *Client) All(ctx context.Context) ([]models.ProductRecord, error) {
	var records []models.ProductRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&records).
		SetError(&APIError{}).
		Get("/getAllProductLists")
	if err := check(resp, err, "/getAllProductLists"); err != nil {
		return nil, err
	}
	return records, nil
}

func check(resp *resty.Response, err error, path string) error {
	if err != nil {
		return errors.Wrapf(err, "request %s", path)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr.Message == "" {
		apiErr = &APIError{Message: http.StatusText(resp.StatusCode())}
	}
	apiErr.StatusCode = resp.StatusCode()
	return apiErr
}
