package pricing

type Category string

const (
	CategoryCake       Category = "cake"
	CategorySmallChops Category = "smallchops"
)

// Customizable reports whether size and layer tiers apply to the category.
func (c Category) Customizable() bool { return c == CategoryCake }
