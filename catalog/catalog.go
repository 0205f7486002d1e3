package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Catalog is an in-memory, read-only set of products and their shipping options.
type Catalog struct {
	products []Product
	byID     map[ProductID]int
	skus     map[SKUID]SKU
	shipping map[ProductID]ShippingInfo
}

// New builds a catalog, validating every product.
func New(products []Product, shipping []ShippingInfo) (*Catalog, error) {
	c := &Catalog{
		byID:     make(map[ProductID]int, len(products)),
		skus:     make(map[SKUID]SKU),
		shipping: make(map[ProductID]ShippingInfo, len(shipping)),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%s: %d", ErrMsgDuplicateProductID, p.ID)
		}
		for _, sku := range p.SKUs {
			if _, dup := c.skus[sku.ID]; dup {
				return nil, fmt.Errorf("%s: %d", ErrMsgDuplicateSKUID, sku.ID)
			}
			c.skus[sku.ID] = sku
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	for _, info := range shipping {
		c.shipping[info.ProductID] = info
	}
	return c, nil
}

// Products returns all products in file order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product looks up a product by id.
func (c *Catalog) Product(id ProductID) (Product, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return c.products[idx], nil
}

// SKU looks up a SKU by id across all products.
func (c *Catalog) SKU(id SKUID) (SKU, error) {
	sku, ok := c.skus[id]
	if !ok {
		return SKU{}, fmt.Errorf("%w: %d", ErrSKUNotFound, id)
	}
	return sku, nil
}

// ShippingInfo returns the shipping options for a product. A product
// without configured options has an empty method list.
func (c *Catalog) ShippingInfo(id ProductID) (ShippingInfo, error) {
	if _, ok := c.byID[id]; !ok {
		return ShippingInfo{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	if info, ok := c.shipping[id]; ok {
		return info, nil
	}
	return ShippingInfo{ProductID: id}, nil
}

// ============================================================================
// YAML file format
// ============================================================================

type fileDoc struct {
	Products []productDoc `yaml:"products"`
}

type productDoc struct {
	ID       int64               `yaml:"id"`
	Name     string              `yaml:"name"`
	Price    normalPriceDoc      `yaml:"price"`
	SKUs     []skuDoc            `yaml:"skus"`
	Shipping []shippingMethodDoc `yaml:"shipping"`
}

type priceDoc struct {
	Regular string   `yaml:"regular,omitempty"`
	Sale    *saleDoc `yaml:"sale,omitempty"`
}

type saleDoc struct {
	Was string `yaml:"was"`
	Now string `yaml:"now"`
}

type normalPriceDoc struct {
	priceDoc `yaml:",inline"`
	From     *priceDoc `yaml:"from,omitempty"`
	To       *priceDoc `yaml:"to,omitempty"`
}

type skuDoc struct {
	ID    int64 `yaml:"id"`
	Color struct {
		Name     string `yaml:"name"`
		ImageURL string `yaml:"image_url"`
	} `yaml:"color"`
	Size struct {
		Name            string `yaml:"name"`
		MetaDescription string `yaml:"meta_description"`
	} `yaml:"size"`
	Price priceDoc `yaml:"price"`
}

type shippingMethodDoc struct {
	Name    string `yaml:"name"`
	Cost    string `yaml:"cost"`
	MinDays int    `yaml:"min_days"`
	MaxDays int    `yaml:"max_days"`
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a catalog from YAML.
func Load(r io.Reader) (*Catalog, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	products := make([]Product, 0, len(doc.Products))
	var shipping []ShippingInfo
	for _, pd := range doc.Products {
		p, err := pd.toProduct()
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", pd.ID, err)
		}
		products = append(products, p)

		if len(pd.Shipping) > 0 {
			info := ShippingInfo{ProductID: p.ID}
			for _, md := range pd.Shipping {
				cost, err := parseAmount(md.Cost)
				if err != nil {
					return nil, fmt.Errorf("product %d: shipping %q: %w", pd.ID, md.Name, err)
				}
				info.Methods = append(info.Methods, ShippingMethod{
					Name:    md.Name,
					Cost:    cost,
					MinDays: md.MinDays,
					MaxDays: md.MaxDays,
				})
			}
			shipping = append(shipping, info)
		}
	}
	return New(products, shipping)
}

func (pd productDoc) toProduct() (Product, error) {
	price, err := pd.Price.toNormalPrice()
	if err != nil {
		return Product{}, err
	}
	p := Product{ID: ProductID(pd.ID), Name: pd.Name, Price: price}
	for _, sd := range pd.SKUs {
		skuPrice, err := sd.Price.toPrice()
		if err != nil {
			return Product{}, fmt.Errorf("sku %d: %w", sd.ID, err)
		}
		p.SKUs = append(p.SKUs, SKU{
			ID:    SKUID(sd.ID),
			Color: SKUColor{Name: sd.Color.Name, ImageURL: sd.Color.ImageURL},
			Size:  SKUSize{Name: sd.Size.Name, MetaDescription: sd.Size.MetaDescription},
			Price: skuPrice,
		})
	}
	return p, nil
}

func (d normalPriceDoc) toNormalPrice() (NormalPrice, error) {
	if d.From != nil || d.To != nil {
		if d.From == nil || d.To == nil {
			return NormalPrice{}, fmt.Errorf("price range needs both from and to")
		}
		from, err := d.From.toPrice()
		if err != nil {
			return NormalPrice{}, err
		}
		to, err := d.To.toPrice()
		if err != nil {
			return NormalPrice{}, err
		}
		return Range(from, to), nil
	}
	p, err := d.priceDoc.toPrice()
	if err != nil {
		return NormalPrice{}, err
	}
	return Single(p), nil
}

func (d priceDoc) toPrice() (Price, error) {
	switch {
	case d.Sale != nil:
		was, err := parseAmount(d.Sale.Was)
		if err != nil {
			return Price{}, err
		}
		now, err := parseAmount(d.Sale.Now)
		if err != nil {
			return Price{}, err
		}
		p := Sale(was, now)
		return p, p.Validate()
	case d.Regular != "":
		amount, err := parseAmount(d.Regular)
		if err != nil {
			return Price{}, err
		}
		p := Regular(amount)
		return p, p.Validate()
	default:
		return Price{}, fmt.Errorf("%s", ErrMsgPriceRequired)
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s %q: %w", ErrMsgInvalidAmount, s, err)
	}
	return d, nil
}
