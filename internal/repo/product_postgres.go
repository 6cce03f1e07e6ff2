package repo

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rogerio-castellano/shelf-locator/internal/models"
)

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

const selectProductColumns = `SELECT id, position, code, product_list, quantity, pos FROM product_lists`

// columns is the whitelist of lookup fields to column names; field values
// are never interpolated into SQL.
var columns = map[Field]string{
	FieldPos:  "pos",
	FieldCode: "code",
}

type productRow struct {
	id          int64
	position    sql.NullString
	code        sql.NullString
	productList sql.NullString
	quantity    sql.NullString
	pos         sql.NullString
}

func (row productRow) record() models.ProductRecord {
	p := models.ProductRecord{
		ID:          strconv.FormatInt(row.id, 10),
		Position:    row.position.String,
		Code:        row.code.String,
		ProductList: row.productList.String,
		Pos:         row.pos.String,
	}
	if row.quantity.Valid {
		p.Quantity = models.QuantityOf(row.quantity.String)
	}
	return p
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (models.ProductRecord, error) {
	var row productRow
	if err := s.Scan(&row.id, &row.position, &row.code, &row.productList, &row.quantity, &row.pos); err != nil {
		return models.ProductRecord{}, err
	}
	return row.record(), nil
}

func (r *PostgresProductRepository) FindOne(ctx context.Context, field Field, key string) (models.ProductRecord, error) {
	column, ok := columns[field]
	if !ok {
		return models.ProductRecord{}, ErrUnknownField
	}
	query := selectProductColumns + ` WHERE ` + column + ` = $1 ORDER BY id LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProductRecord{}, ErrProductNotFound
	}
	if err != nil {
		return models.ProductRecord{}, errors.Wrapf(err, "query product by %s", field)
	}
	return p, nil
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.ProductRecord, error) {
	query := selectProductColumns + ` ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query product lists")
	}
	defer rows.Close()

	products := []models.ProductRecord{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan product list")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate product lists")
	}
	return products, nil
}

// Upsert relies on the unique index on pos. xmax is non-zero for rows that
// were updated by the ON CONFLICT branch.
func (r *PostgresProductRepository) Upsert(ctx context.Context, p models.ProductRecord) (bool, error) {
	if p.Pos == "" {
		return false, ErrMissingPos
	}
	query := `
		INSERT INTO product_lists (position, code, product_list, quantity, pos)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (pos) DO UPDATE
		SET position = EXCLUDED.position, code = EXCLUDED.code,
		    product_list = EXCLUDED.product_list, quantity = EXCLUDED.quantity
		RETURNING (xmax <> 0) AS updated
	`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var quantity sql.NullString
	if p.Quantity != nil {
		quantity = sql.NullString{String: *p.Quantity, Valid: true}
	}

	var updated bool
	err := r.db.QueryRowContext(ctx, query, nullIfEmpty(p.Position), nullIfEmpty(p.Code), nullIfEmpty(p.ProductList), quantity, p.Pos).Scan(&updated)
	if err != nil {
		return false, errors.Wrapf(err, "upsert product at %s", p.Pos)
	}
	return updated, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
