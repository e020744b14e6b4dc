package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const findVariantById = `-- name: FindVariantById :one
SELECT v.id, v.product_id, p.title, v.title AS variant_title, v.image, v.base_price, p.category
FROM product_variants v
JOIN products p ON p.id = v.product_id
WHERE v.id = $1
`

type FindVariantByIdRow struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	Title        string          `json:"title"`
	VariantTitle string          `json:"variant_title"`
	Image        string          `json:"image"`
	BasePrice    pgtype.Numeric  `json:"base_price"`
	Category     ProductCategory `json:"category"`
}

func (q *Queries) FindVariantById(ctx context.Context, id int64) (FindVariantByIdRow, error) {
	row := q.db.QueryRow(ctx, findVariantById, id)
	var i FindVariantByIdRow
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.Title,
		&i.VariantTitle,
		&i.Image,
		&i.BasePrice,
		&i.Category,
	)
	return i, err
}

const findProducts = `-- name: FindProducts :many
SELECT p.id, p.title, p.description, p.category, p.created_at, p.updated_at,
    COALESCE(
        json_agg(
            json_build_object(
                'productId', v.product_id,
                'variantId', v.id,
                'title', CASE WHEN v.title = '' THEN p.title ELSE p.title || ' - ' || v.title END,
                'image', v.image,
                'basePrice', v.base_price,
                'category', p.category
            ) ORDER BY v.id
        ) FILTER (WHERE v.id IS NOT NULL),
        '[]'
    )::jsonb AS variants
FROM products p
LEFT JOIN product_variants v ON v.product_id = p.id
WHERE $1::text = '' OR p.category::text = $1::text
GROUP BY p.id
ORDER BY p.id
`

type FindProductsRow struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    ProductCategory    `json:"category"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
	Variants    []byte             `json:"variants"`
}

func (q *Queries) FindProducts(ctx context.Context, category string) ([]FindProductsRow, error) {
	rows, err := q.db.Query(ctx, findProducts, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindProductsRow{}
	for rows.Next() {
		var i FindProductsRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Description,
			&i.Category,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.Variants,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
