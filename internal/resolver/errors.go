package resolver

import (
	"fmt"

	"github.com/rogerio-castellano/shelf-locator/internal/repo"
)

// ValidationError reports a missing or blank lookup key.
type ValidationError struct {
	Field repo.Field
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s parameter is required", e.Field)
}

// NotFoundError reports that no record matched. Key is echoed back to clients.
type NotFoundError struct {
	Field repo.Field
	Key   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no product with %s %q", e.Field, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == repo.ErrProductNotFound
}

// StoreError wraps a persistence failure.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return "store unavailable: " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
