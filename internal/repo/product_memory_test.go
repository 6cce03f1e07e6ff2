package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogerio-castellano/shelf-locator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryProductRepository_FindOne(t *testing.T) {
	r := NewInMemoryProductRepository(
		models.ProductRecord{Pos: "A02-D01", Code: "X1", ProductList: "Paracetamol", Quantity: models.QuantityOf("10")},
		models.ProductRecord{Pos: "A02-D02", Code: "X1", ProductList: "Duplicate code"},
	)
	ctx := context.Background()

	tests := []struct {
		name    string
		field   Field
		key     string
		wantPos string
		wantErr error
	}{
		{name: "by pos", field: FieldPos, key: "A02-D01", wantPos: "A02-D01"},
		{name: "by code returns first match", field: FieldCode, key: "X1", wantPos: "A02-D01"},
		{name: "missing pos", field: FieldPos, key: "Z99-Z99", wantErr: ErrProductNotFound},
		{name: "unknown field", field: Field("quantity"), key: "10", wantErr: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.FindOne(ctx, tt.field, tt.key)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPos, got.Pos)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestInMemoryProductRepository_Upsert(t *testing.T) {
	r := NewInMemoryProductRepository()
	ctx := context.Background()

	updated, err := r.Upsert(ctx, models.ProductRecord{Pos: "C01-A01", Code: "P1"})
	require.NoError(t, err)
	assert.False(t, updated)

	updated, err = r.Upsert(ctx, models.ProductRecord{Pos: "C01-A01", Code: "P2"})
	require.NoError(t, err)
	assert.True(t, updated)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "P2", all[0].Code)
	assert.Equal(t, "1", all[0].ID, "replace keeps the original id")

	_, err = r.Upsert(ctx, models.ProductRecord{Code: "P3"})
	assert.ErrorIs(t, err, ErrMissingPos)
}

func TestInMemoryProductRepository_GetAllReturnsCopy(t *testing.T) {
	r := NewInMemoryProductRepository(models.ProductRecord{Pos: "D05-A01"})
	all, err := r.GetAll(context.Background())
	require.NoError(t, err)
	all[0].Pos = "changed"

	got, err := r.FindOne(context.Background(), FieldPos, "D05-A01")
	require.NoError(t, err)
	assert.Equal(t, "D05-A01", got.Pos)
}

func TestNewInMemoryProductRepositoryFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	seed := `[{"pos":"A02-D01","code":"X1","product_list":"Paracetamol","quantity":"10"},{"pos":"A02-D02"}]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	r, err := NewInMemoryProductRepositoryFromFile(path)
	require.NoError(t, err)

	got, err := r.FindOne(context.Background(), FieldCode, "X1")
	require.NoError(t, err)
	require.NotNil(t, got.Quantity)
	assert.Equal(t, "10", *got.Quantity)

	other, err := r.FindOne(context.Background(), FieldPos, "A02-D02")
	require.NoError(t, err)
	assert.Nil(t, other.Quantity)

	_, err = NewInMemoryProductRepositoryFromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
