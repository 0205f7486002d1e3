package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/PeqNP/CommandAndControl/catalog"
	"github.com/PeqNP/CommandAndControl/deferred"
)

// CatalogShipping answers shipping questions from the catalog.
type CatalogShipping struct {
	faults
	catalog  *catalog.Catalog
	settings settings
}

// NewCatalogShipping creates a shipping service for the products in cat.
func NewCatalogShipping(cat *catalog.Catalog, opts ...Option) *CatalogShipping {
	return &CatalogShipping{
		catalog:  cat,
		settings: newSettings(opts),
	}
}

// ShippingInfoFor returns the delivery options for a product.
func (s *CatalogShipping) ShippingInfoFor(ctx context.Context, productID catalog.ProductID) *deferred.Deferred[catalog.ShippingInfo] {
	pending := deferred.New[catalog.ShippingInfo]()
	s.settings.deliver(func() {
		info, err := s.lookup(ctx, productID)
		if err != nil {
			s.settings.logger.Warn("shipping lookup failed",
				zap.Int64("product_id", int64(productID)),
				zap.Error(err))
			pending.Reject(err)
			return
		}
		s.settings.logger.Debug("shipping lookup",
			zap.Int64("product_id", int64(productID)),
			zap.Int("methods", len(info.Methods)))
		pending.Resolve(info)
	})
	return pending
}

func (s *CatalogShipping) lookup(ctx context.Context, productID catalog.ProductID) (catalog.ShippingInfo, error) {
	if err := checkContext(ctx); err != nil {
		return catalog.ShippingInfo{}, err
	}
	if s.shouldFail() {
		return catalog.ShippingInfo{}, fmt.Errorf("shipping for product %d: %w", productID, ErrGeneric)
	}
	info, err := s.catalog.ShippingInfo(productID)
	if err != nil {
		return catalog.ShippingInfo{}, fmt.Errorf("%w: %w", ErrGeneric, err)
	}
	return info, nil
}
