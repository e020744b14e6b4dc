package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertOrder = `-- name: InsertOrder :one
INSERT INTO orders (
    id, user_id, total, payment_method, full_name, email, phone, whatsapp, address, city, state, postal_code
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
)
RETURNING id, user_id, status, total, payment_method, full_name, email, phone, whatsapp, address, city, state, postal_code, created_at, updated_at
`

type InsertOrderParams struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	Total         pgtype.Numeric `json:"total"`
	PaymentMethod string         `json:"payment_method"`
	FullName      string         `json:"full_name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Whatsapp      string         `json:"whatsapp"`
	Address       string         `json:"address"`
	City          string         `json:"city"`
	State         string         `json:"state"`
	PostalCode    string         `json:"postal_code"`
}

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, insertOrder,
		arg.ID,
		arg.UserID,
		arg.Total,
		arg.PaymentMethod,
		arg.FullName,
		arg.Email,
		arg.Phone,
		arg.Whatsapp,
		arg.Address,
		arg.City,
		arg.State,
		arg.PostalCode,
	)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Status,
		&i.Total,
		&i.PaymentMethod,
		&i.FullName,
		&i.Email,
		&i.Phone,
		&i.Whatsapp,
		&i.Address,
		&i.City,
		&i.State,
		&i.PostalCode,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type InsertOrderItemsParams struct {
	ID            uuid.UUID      `json:"id"`
	OrderID       uuid.UUID      `json:"order_id"`
	ProductID     int64          `json:"product_id"`
	VariantID     int64          `json:"variant_id"`
	Name          string         `json:"name"`
	Image         string         `json:"image"`
	Quantity      int32          `json:"quantity"`
	Price         pgtype.Numeric `json:"price"`
	Customization []byte         `json:"customization"`
}

const findOrderById = `-- name: FindOrderById :one
SELECT o.id, o.user_id, o.status, o.total, o.payment_method, o.full_name, o.email, o.phone, o.whatsapp, o.address, o.city, o.state, o.postal_code, o.created_at, o.updated_at,
    COALESCE(
        json_agg(
            json_build_object(
                'id', oi.id,
                'orderId', oi.order_id,
                'productId', oi.product_id,
                'variantId', oi.variant_id,
                'name', oi.name,
                'image', oi.image,
                'quantity', oi.quantity,
                'price', oi.price,
                'customization', oi.customization
            )
        ) FILTER (WHERE oi.id IS NOT NULL),
        '[]'
    )::jsonb AS order_items
FROM orders o
LEFT JOIN order_items oi ON oi.order_id = o.id
WHERE o.id = $1
GROUP BY o.id
`

type FindOrderByIdRow struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	Status        OrderStatus        `json:"status"`
	Total         pgtype.Numeric     `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	FullName      string             `json:"full_name"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	Whatsapp      string             `json:"whatsapp"`
	Address       string             `json:"address"`
	City          string             `json:"city"`
	State         string             `json:"state"`
	PostalCode    string             `json:"postal_code"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
	OrderItems    []byte             `json:"order_items"`
}

func (q *Queries) FindOrderById(ctx context.Context, id uuid.UUID) (FindOrderByIdRow, error) {
	row := q.db.QueryRow(ctx, findOrderById, id)
	var i FindOrderByIdRow
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Status,
		&i.Total,
		&i.PaymentMethod,
		&i.FullName,
		&i.Email,
		&i.Phone,
		&i.Whatsapp,
		&i.Address,
		&i.City,
		&i.State,
		&i.PostalCode,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.OrderItems,
	)
	return i, err
}

const findOrdersByUserId = `-- name: FindOrdersByUserId :many
SELECT o.id, o.user_id, o.status, o.total, o.payment_method, o.full_name, o.email, o.phone, o.whatsapp, o.address, o.city, o.state, o.postal_code, o.created_at, o.updated_at,
    COALESCE(
        json_agg(
            json_build_object(
                'id', oi.id,
                'orderId', oi.order_id,
                'productId', oi.product_id,
                'variantId', oi.variant_id,
                'name', oi.name,
                'image', oi.image,
                'quantity', oi.quantity,
                'price', oi.price,
                'customization', oi.customization
            )
        ) FILTER (WHERE oi.id IS NOT NULL),
        '[]'
    )::jsonb AS order_items
FROM orders o
LEFT JOIN order_items oi ON oi.order_id = o.id
WHERE o.user_id = $1
GROUP BY o.id
ORDER BY o.created_at DESC
`

type FindOrdersByUserIdRow struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	Status        OrderStatus        `json:"status"`
	Total         pgtype.Numeric     `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	FullName      string             `json:"full_name"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	Whatsapp      string             `json:"whatsapp"`
	Address       string             `json:"address"`
	City          string             `json:"city"`
	State         string             `json:"state"`
	PostalCode    string             `json:"postal_code"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
	OrderItems    []byte             `json:"order_items"`
}

func (q *Queries) FindOrdersByUserId(ctx context.Context, userID uuid.UUID) ([]FindOrdersByUserIdRow, error) {
	rows, err := q.db.Query(ctx, findOrdersByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindOrdersByUserIdRow{}
	for rows.Next() {
		var i FindOrdersByUserIdRow
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Status,
			&i.Total,
			&i.PaymentMethod,
			&i.FullName,
			&i.Email,
			&i.Phone,
			&i.Whatsapp,
			&i.Address,
			&i.City,
			&i.State,
			&i.PostalCode,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.OrderItems,
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

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $2, updated_at = now()
WHERE id = $1
RETURNING id, user_id, status, total, payment_method, full_name, email, phone, whatsapp, address, city, state, postal_code, created_at, updated_at
`

type UpdateOrderStatusParams struct {
	ID     uuid.UUID   `json:"id"`
	Status OrderStatus `json:"status"`
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Status,
		&i.Total,
		&i.PaymentMethod,
		&i.FullName,
		&i.Email,
		&i.Phone,
		&i.Whatsapp,
		&i.Address,
		&i.City,
		&i.State,
		&i.PostalCode,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
