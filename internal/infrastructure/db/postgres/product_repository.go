package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/99minutos/order-service/internal/core/domain"
)

// ProductRepository implements ports.ProductRepository and ports.Catalog.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, price, stock, category, image_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, stock, category, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURL)

	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return created, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, category = $5, image_url = $6,
		    updated_at = NOW()
		WHERE id = $7
		RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURL, p.ID)

	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

// Delete fails with domain.ErrProductInUse while order items still reference the product.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

// FindMany returns the subset of ids that exist, in one query.
func (r *ProductRepository) FindMany(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
