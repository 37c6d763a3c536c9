package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"ftour-be/internal/logger"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

//go:embed default.json
var defaultCatalog []byte

// Catalog is the read-only product and package catalog.
type Catalog struct {
	products   []Product
	productIdx map[string]int
	packages   []PackageTemplate
	packageIdx map[string]int
	categories []string
	tags       []string
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultCatalog))
}

// Load reads a JSON catalog file from path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, err
	}

	logger.L().Info("catalog loaded",
		zap.String("path", path),
		zap.Int("products", len(c.products)),
		zap.Int("packages", len(c.packages)),
	)
	return c, nil
}

// Parse decodes and validates a catalog document.
func Parse(r io.Reader) (*Catalog, error) {
	var doc catalogFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Products, doc.Packages)
}

// New validates products and templates and builds a catalog from them.
func New(products []Product, packages []PackageTemplate) (*Catalog, error) {
	c := &Catalog{
		productIdx: make(map[string]int, len(products)),
		packageIdx: make(map[string]int, len(packages)),
	}

	seenCategory := map[string]bool{}
	seenTag := map[string]bool{}

	for _, p := range products {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: missing name", ErrInvalidProduct)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("%w: product %q", ErrInvalidPrice, p.Name)
		}
		if p.ID == "" {
			p.ID = slug.Make(p.Name)
		}
		if _, ok := c.productIdx[p.ID]; ok {
			return nil, fmt.Errorf("%w: product %q", ErrDuplicateID, p.ID)
		}
		p.Tags = append([]string(nil), p.Tags...)

		c.productIdx[p.ID] = len(c.products)
		c.products = append(c.products, p)

		if key := slug.Make(p.Category); key != "" && !seenCategory[key] {
			seenCategory[key] = true
			c.categories = append(c.categories, p.Category)
		}
		for _, tag := range p.Tags {
			if key := slug.Make(tag); key != "" && !seenTag[key] {
				seenTag[key] = true
				c.tags = append(c.tags, tag)
			}
		}
	}

	for _, t := range packages {
		if err := validateTemplate(&t); err != nil {
			return nil, err
		}
		if _, ok := c.packageIdx[t.ID]; ok {
			return nil, fmt.Errorf("%w: package %q", ErrDuplicateID, t.ID)
		}
		c.packageIdx[t.ID] = len(c.packages)
		c.packages = append(c.packages, t)
	}

	return c, nil
}

func validateTemplate(t *PackageTemplate) error {
	if t.ID == "" {
		t.ID = slug.Make(t.Title)
	}
	if t.ID == "" {
		return fmt.Errorf("%w: package without id or title", ErrInvalidProduct)
	}
	if t.PersonCount < 1 {
		return fmt.Errorf("%w: package %q", ErrInvalidPersonCount, t.ID)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("%w: package %q", ErrInvalidPrice, t.ID)
	}
	if len(t.Categories) == 0 {
		return fmt.Errorf("%w: package %q", ErrNoCategories, t.ID)
	}

	categories := make([]PackageCategory, len(t.Categories))
	seen := map[string]bool{}
	for i, cat := range t.Categories {
		if seen[cat.Name] {
			return fmt.Errorf("%w: package %q category %q", ErrDuplicateCategory, t.ID, cat.Name)
		}
		seen[cat.Name] = true

		if len(cat.Options) == 0 {
			return fmt.Errorf("%w: package %q category %q", ErrEmptyCategory, t.ID, cat.Name)
		}
		optionSeen := map[string]bool{}
		for _, o := range cat.Options {
			if optionSeen[o.ID] {
				return fmt.Errorf("%w: package %q option %q", ErrDuplicateOption, t.ID, o.ID)
			}
			optionSeen[o.ID] = true
			if o.Price.IsNegative() {
				return fmt.Errorf("%w: package %q option %q", ErrInvalidPrice, t.ID, o.ID)
			}
		}
		categories[i] = PackageCategory{
			Name:    cat.Name,
			Options: append([]PackageOption(nil), cat.Options...),
		}
	}
	t.Categories = categories
	return nil
}

// Products returns the products matching filter in catalog order.
// Category and tags compare on their slug form; "All" matches every category.
func (c *Catalog) Products(filter ProductFilter) []Product {
	category := slug.Make(filter.Category)
	if category == "all" {
		category = ""
	}
	wanted := make(map[string]bool, len(filter.Tags))
	for _, tag := range filter.Tags {
		wanted[slug.Make(tag)] = true
	}

	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && slug.Make(p.Category) != category {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if len(wanted) > 0 && !hasAnyTag(p.Tags, wanted) {
			continue
		}
		out = append(out, copyProduct(p))
	}
	return out
}

func hasAnyTag(tags []string, wanted map[string]bool) bool {
	for _, tag := range tags {
		if wanted[slug.Make(tag)] {
			return true
		}
	}
	return false
}

func (c *Catalog) Product(id string) (Product, error) {
	i, ok := c.productIdx[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return copyProduct(c.products[i]), nil
}

// Categories lists distinct product categories in first-seen order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Tags lists distinct product tags in first-seen order.
func (c *Catalog) Tags() []string {
	return append([]string(nil), c.tags...)
}

func (c *Catalog) Packages() []PackageTemplate {
	out := make([]PackageTemplate, len(c.packages))
	for i, t := range c.packages {
		out[i] = copyTemplate(t)
	}
	return out
}

func (c *Catalog) Package(id string) (PackageTemplate, error) {
	i, ok := c.packageIdx[id]
	if !ok {
		return PackageTemplate{}, ErrPackageNotFound
	}
	return copyTemplate(c.packages[i]), nil
}

func copyProduct(p Product) Product {
	p.Tags = append([]string(nil), p.Tags...)
	return p
}

func copyTemplate(t PackageTemplate) PackageTemplate {
	categories := make([]PackageCategory, len(t.Categories))
	for i, cat := range t.Categories {
		categories[i] = PackageCategory{
			Name:    cat.Name,
			Options: append([]PackageOption(nil), cat.Options...),
		}
	}
	t.Categories = categories
	return t
}
