package catalog

import "github.com/shopspring/decimal"

type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	Tags     []string        `json:"tags"`
}

type PackageOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type PackageCategory struct {
	Name    string          `json:"name"`
	Options []PackageOption `json:"options"`
}

// Option looks up an option of the category by id.
func (c PackageCategory) Option(id string) (PackageOption, bool) {
	for _, o := range c.Options {
		if o.ID == id {
			return o, true
		}
	}
	return PackageOption{}, false
}

// PackageTemplate is a customizable package. Price is the per-person rate;
// a zero price means the configured default rate applies.
type PackageTemplate struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Price       decimal.Decimal   `json:"price"`
	PersonCount int               `json:"persons"`
	Image       string            `json:"image"`
	Categories  []PackageCategory `json:"categories"`
}

func (t PackageTemplate) Category(name string) (PackageCategory, bool) {
	for _, c := range t.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return PackageCategory{}, false
}

type ProductFilter struct {
	Category string
	Tags     []string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

type catalogFile struct {
	Products []Product         `json:"products"`
	Packages []PackageTemplate `json:"packages"`
}
