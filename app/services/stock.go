package services

import (
	"strings"

	"github.com/powerpointbreak/storebot/app/models"
	"github.com/powerpointbreak/storebot/pkg/docstore"
	"github.com/powerpointbreak/storebot/pkg/logger"
	"github.com/powerpointbreak/storebot/pkg/metrics"
)

// StockPool manages the per-product credential pools.
type StockPool struct {
	store *docstore.Store
}

// NewStockPool returns a pool over store.
func NewStockPool(store *docstore.Store) *StockPool {
	return &StockPool{store: store}
}

// AddReport describes the outcome of a BulkAdd, line by line. Lines are
// 1-based; a line is rejected when it contains no "|" separator. Blank lines
// are skipped entirely and appear in neither count.
type AddReport struct {
	ProductID string
	Accepted  int
	Rejected  []int
}

// BulkAdd appends each acceptable line to the product's pool verbatim, as an
// unused credential. `|`-less lines are reported back rather than silently
// dropped.
func (p *StockPool) BulkAdd(productID string, lines []string) (AddReport, error) {
	report := AddReport{ProductID: productID}

	err := p.store.Update(func(doc *models.Document) error {
		prod, ok := doc.Products[productID]
		if !ok {
			return ErrProductNotFound
		}

		for i, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !strings.Contains(line, "|") {
				report.Rejected = append(report.Rejected, i+1)
				continue
			}
			doc.Stock[productID] = append(doc.Stock[productID], models.StockItem{Credential: line})
			report.Accepted++
		}

		doc.LogActivity(nowFunc(), "STOCK ADDED — "+itoa(report.Accepted)+" items ("+prod.Name+")")
		metrics.StockAvailable.WithLabelValues(productID).Set(float64(countUnused(doc.Stock[productID])))
		return nil
	})
	if err != nil {
		return AddReport{}, err
	}

	logger.Info("stock added", "product_id", productID,
		"accepted", report.Accepted, "rejected", len(report.Rejected))
	return report, nil
}

// AvailableCount returns the number of unused credentials for the product.
func (p *StockPool) AvailableCount(productID string) int {
	var n int
	p.store.View(func(doc *models.Document) {
		n = countUnused(doc.Stock[productID])
	})
	return n
}

// UsedCount returns the number of delivered credentials for the product.
func (p *StockPool) UsedCount(productID string) int {
	var n int
	p.store.View(func(doc *models.Document) {
		for _, item := range doc.Stock[productID] {
			if item.Used {
				n++
			}
		}
	})
	return n
}

// Totals returns pool-wide available and used counts.
func (p *StockPool) Totals() (available, used int) {
	p.store.View(func(doc *models.Document) {
		for _, list := range doc.Stock {
			for _, item := range list {
				if item.Used {
					used++
				} else {
					available++
				}
			}
		}
	})
	return
}

// LowStockItem names a product whose available count is at or below the
// sweep threshold.
type LowStockItem struct {
	ProductID string
	Name      string
	Available int
}

// LowStock returns every product at or below threshold, in stable product-id
// order.
func (p *StockPool) LowStock(threshold int) []LowStockItem {
	var items []LowStockItem
	p.store.View(func(doc *models.Document) {
		for _, id := range sortedKeys(doc.Stock) {
			n := countUnused(doc.Stock[id])
			if n > threshold {
				continue
			}
			name := "Unknown Product"
			if prod, ok := doc.Products[id]; ok {
				name = prod.Name
			}
			items = append(items, LowStockItem{ProductID: id, Name: name, Available: n})
		}
	})
	return items
}

// allocate hands out the first unused credential in stored order, flipping
// its used flag. Runs inside a store Update; the caller owns the lock.
// Allocation is strict FIFO over insertion order with no reuse, so each
// credential is delivered at most once system-wide.
func allocate(doc *models.Document, productID string) (string, error) {
	list := doc.Stock[productID]
	for i := range list {
		if !list[i].Used {
			list[i].Used = true
			return list[i].Credential, nil
		}
	}
	return "", ErrStockExhausted
}

func countUnused(list []models.StockItem) int {
	var n int
	for _, item := range list {
		if !item.Used {
			n++
		}
	}
	return n
}
