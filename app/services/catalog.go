package services

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/powerpointbreak/storebot/app/models"
	"github.com/powerpointbreak/storebot/pkg/logger"
)

// CategoryView / ProductView are keyed copies for rendering.
type CategoryView struct {
	ID string
	models.Category
}

type ProductView struct {
	ID string
	models.Product
}

// Categories lists every category, sorted by id for a stable keyboard layout.
func (l *Ledger) Categories() []CategoryView {
	var out []CategoryView
	l.store.View(func(doc *models.Document) {
		for id, c := range doc.Categories {
			out = append(out, CategoryView{ID: id, Category: *c})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Products lists every product, sorted by id.
func (l *Ledger) Products() []ProductView {
	var out []ProductView
	l.store.View(func(doc *models.Document) {
		for id, p := range doc.Products {
			out = append(out, ProductView{ID: id, Product: *p})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ProductsIn lists the products belonging to a category, sorted by id.
func (l *Ledger) ProductsIn(catID string) []ProductView {
	all := l.Products()
	out := all[:0]
	for _, p := range all {
		if p.CatID == catID {
			out = append(out, p)
		}
	}
	return out
}

// Product returns one product by id.
func (l *Ledger) Product(productID string) (ProductView, error) {
	var (
		view  ProductView
		found bool
	)
	l.store.View(func(doc *models.Document) {
		if p, ok := doc.Products[productID]; ok {
			view, found = ProductView{ID: productID, Product: *p}, true
		}
	})
	if !found {
		return ProductView{}, ErrProductNotFound
	}
	return view, nil
}

// CreateCategory commits a new category under a fresh short random id.
// Categories are immutable once created; there is no edit or delete path.
func (l *Ledger) CreateCategory(name, banner string) (string, error) {
	id := "cat_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	err := l.store.Update(func(doc *models.Document) error {
		doc.Categories[id] = &models.Category{Name: name, Banner: banner}
		doc.LogActivity(nowFunc(), "CATEGORY ADDED — "+name)
		return nil
	})
	if err != nil {
		return "", err
	}
	logger.Info("category added", "cat_id", id, "name", name)
	return id, nil
}

// ActivityLog returns up to limit newest-first log entries.
func (l *Ledger) ActivityLog(limit int) []string {
	var out []string
	l.store.View(func(doc *models.Document) {
		n := min(limit, len(doc.Logs))
		out = append(out, doc.Logs[:n]...)
	})
	return out
}
