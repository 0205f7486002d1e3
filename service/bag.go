package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PeqNP/CommandAndControl/catalog"
	"github.com/PeqNP/CommandAndControl/deferred"
)

// BagLine is one accepted add-to-bag request.
type BagLine struct {
	ID       uuid.UUID
	SKUID    catalog.SKUID
	Quantity int
	Subtotal decimal.Decimal
}

// MemoryBag is a shopping bag held in memory. It accepts any SKU the catalog
// knows about.
type MemoryBag struct {
	faults
	catalog  *catalog.Catalog
	settings settings

	mu    sync.Mutex
	lines []BagLine
}

// NewMemoryBag creates an empty bag for the SKUs in cat.
func NewMemoryBag(cat *catalog.Catalog, opts ...Option) *MemoryBag {
	return &MemoryBag{
		catalog:  cat,
		settings: newSettings(opts),
	}
}

// AddToBag adds quantity units of a SKU. The result settles after the
// configured latency.
func (b *MemoryBag) AddToBag(ctx context.Context, skuID catalog.SKUID, quantity int) *deferred.Deferred[catalog.BagReceipt] {
	pending := deferred.New[catalog.BagReceipt]()
	b.settings.deliver(func() {
		receipt, err := b.add(ctx, skuID, quantity)
		if err != nil {
			b.settings.logger.Warn("add to bag failed",
				zap.Int64("sku_id", int64(skuID)),
				zap.Int("quantity", quantity),
				zap.Error(err))
			pending.Reject(err)
			return
		}
		b.settings.logger.Info("added to bag",
			zap.String("line_id", receipt.LineID.String()),
			zap.Int64("sku_id", int64(skuID)),
			zap.Int("quantity", quantity),
			zap.String("subtotal", receipt.Subtotal.StringFixed(2)))
		pending.Resolve(receipt)
	})
	return pending
}

func (b *MemoryBag) add(ctx context.Context, skuID catalog.SKUID, quantity int) (catalog.BagReceipt, error) {
	if err := checkContext(ctx); err != nil {
		return catalog.BagReceipt{}, err
	}
	if b.shouldFail() {
		return catalog.BagReceipt{}, fmt.Errorf("add sku %d: %w", skuID, ErrGeneric)
	}
	if quantity < 1 {
		return catalog.BagReceipt{}, fmt.Errorf("add sku %d: %w: quantity %d", skuID, ErrGeneric, quantity)
	}
	sku, err := b.catalog.SKU(skuID)
	if err != nil {
		return catalog.BagReceipt{}, fmt.Errorf("%w: %w", ErrGeneric, err)
	}

	line := BagLine{
		ID:       uuid.New(),
		SKUID:    sku.ID,
		Quantity: quantity,
		Subtotal: sku.Price.Current().Mul(decimal.NewFromInt(int64(quantity))),
	}
	b.mu.Lock()
	b.lines = append(b.lines, line)
	b.mu.Unlock()

	return catalog.BagReceipt{
		LineID:   line.ID,
		SKUID:    line.SKUID,
		Quantity: line.Quantity,
		Subtotal: line.Subtotal,
	}, nil
}

// Lines returns the accepted lines in order.
func (b *MemoryBag) Lines() []BagLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]BagLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// Total returns the sum of all line subtotals.
func (b *MemoryBag) Total() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := decimal.Zero
	for _, line := range b.lines {
		total = total.Add(line.Subtotal)
	}
	return total
}
