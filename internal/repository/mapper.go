package repository

import (
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bakery/cart/pkg/pricing"
	orderResponse "github.com/Alturino/bakery/order/pkg/response"
	productResponse "github.com/Alturino/bakery/product/pkg/response"
)

func Numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Int:              d.Coefficient(),
		NaN:              false,
		Valid:            true,
	}
}

func Decimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func (v FindVariantByIdRow) Response() productResponse.Variant {
	title := v.Title
	if v.VariantTitle != "" {
		title = v.Title + " - " + v.VariantTitle
	}
	return productResponse.Variant{
		ProductID: v.ProductID,
		VariantID: v.ID,
		Title:     title,
		Image:     v.Image,
		BasePrice: Decimal(v.BasePrice),
		Category:  pricing.Category(v.Category),
	}
}

func (p FindProductsRow) Response() (productResponse.Product, error) {
	variants := []productResponse.Variant{}
	err := json.Unmarshal(p.Variants, &variants)
	if err != nil {
		return productResponse.Product{}, err
	}
	return productResponse.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    pricing.Category(p.Category),
		Variants:    variants,
		CreatedAt:   p.CreatedAt.Time,
		UpdatedAt:   p.UpdatedAt.Time,
	}, nil
}

func (o Order) Response() orderResponse.Order {
	return orderResponse.Order{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        orderResponse.Status(o.Status),
		Total:         Decimal(o.Total),
		PaymentMethod: o.PaymentMethod,
		CustomerInfo: orderResponse.CustomerInfo{
			FullName:   o.FullName,
			Email:      o.Email,
			Phone:      o.Phone,
			Whatsapp:   o.Whatsapp,
			Address:    o.Address,
			City:       o.City,
			State:      o.State,
			PostalCode: o.PostalCode,
		},
		OrderItems: []orderResponse.OrderItem{},
		CreatedAt:  o.CreatedAt.Time,
		UpdatedAt:  o.UpdatedAt.Time,
	}
}

func (f FindOrderByIdRow) Response() (orderResponse.Order, error) {
	orderItems := []orderResponse.OrderItem{}
	err := json.Unmarshal(f.OrderItems, &orderItems)
	if err != nil {
		return orderResponse.Order{}, err
	}
	order := Order{
		ID:            f.ID,
		UserID:        f.UserID,
		Status:        f.Status,
		Total:         f.Total,
		PaymentMethod: f.PaymentMethod,
		FullName:      f.FullName,
		Email:         f.Email,
		Phone:         f.Phone,
		Whatsapp:      f.Whatsapp,
		Address:       f.Address,
		City:          f.City,
		State:         f.State,
		PostalCode:    f.PostalCode,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}.Response()
	order.OrderItems = orderItems
	return order, nil
}

func (f FindOrdersByUserIdRow) Response() (orderResponse.Order, error) {
	return FindOrderByIdRow(f).Response()
}
