package product

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrShopNotFound    = errors.New("shop not found")
)

type Repository interface {
	ListByShop(ctx context.Context, shopID int64) ([]*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	ToggleStock(ctx context.Context, id int64) (*Product, error)

	GetShop(ctx context.Context, shopID int64) (*ShopInfo, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, shop_id, name, description, price, discount_price,
	unit, image_url, in_stock, is_featured, created_at, updated_at
`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.ShopID, &p.Name, &p.Description, &p.Price, &p.DiscountPrice,
		&p.Unit, &p.ImageURL, &p.InStock, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByShop(ctx context.Context, shopID int64) ([]*Product, error) {
	const q = `
		SELECT ` + productColumns + `
		FROM products
		WHERE shop_id = $1
		ORDER BY is_featured DESC, created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, q, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	const q = `
		INSERT INTO products (
			shop_id, name, description, price, discount_price,
			unit, image_url, in_stock, is_featured
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, q,
		p.ShopID, p.Name, p.Description, p.Price, p.DiscountPrice,
		p.Unit, p.ImageURL, p.InStock, p.IsFeatured,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	const q = `
		UPDATE products SET
			name = $2, description = $3, price = $4, discount_price = $5,
			unit = $6, image_url = $7, is_featured = $8, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		p.ID, p.Name, p.Description, p.Price, p.DiscountPrice,
		p.Unit, p.ImageURL, p.IsFeatured,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) ToggleStock(ctx context.Context, id int64) (*Product, error) {
	const q = `
		UPDATE products SET in_stock = NOT in_stock, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *repository) GetShop(ctx context.Context, shopID int64) (*ShopInfo, error) {
	const q = `SELECT id, owner_uid, status, is_active, is_open FROM shops WHERE id = $1`
	var s ShopInfo
	err := r.db.QueryRowContext(ctx, q, shopID).Scan(
		&s.ID, &s.OwnerUID, &s.Status, &s.IsActive, &s.IsOpen,
	)
	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
