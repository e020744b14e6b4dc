package request

type FindVariantById struct {
	VariantID int64 `validate:"required,gt=0" json:"variantId"`
}

type FindProducts struct {
	Category string `validate:"omitempty,oneof=cake smallchops" json:"category"`
}
