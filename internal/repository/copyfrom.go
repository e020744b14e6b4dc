package repository

import (
	"context"
)

type iteratorForInsertOrderItems struct {
	rows                 []InsertOrderItemsParams
	skippedFirstNextCall bool
}

func (r *iteratorForInsertOrderItems) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForInsertOrderItems) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].ID,
		r.rows[0].OrderID,
		r.rows[0].ProductID,
		r.rows[0].VariantID,
		r.rows[0].Name,
		r.rows[0].Image,
		r.rows[0].Quantity,
		r.rows[0].Price,
		r.rows[0].Customization,
	}, nil
}

func (r iteratorForInsertOrderItems) Err() error {
	return nil
}

func (q *Queries) InsertOrderItems(ctx context.Context, arg []InsertOrderItemsParams) (int64, error) {
	return q.db.CopyFrom(ctx, []string{"order_items"}, []string{"id", "order_id", "product_id", "variant_id", "name", "image", "quantity", "price", "customization"}, &iteratorForInsertOrderItems{rows: arg})
}
