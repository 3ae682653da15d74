package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powerpointbreak/storebot/app/models"
)

func TestCreateCategory(t *testing.T) {
	store := newTestStore(t)
	l := NewLedger(store)

	id, err := l.CreateCategory("Streaming", "N/A")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "cat_"))
	assert.Len(t, id, len("cat_")+4)

	store.View(func(doc *models.Document) {
		c := doc.Categories[id]
		require.NotNil(t, c)
		assert.Equal(t, "Streaming", c.Name)
	})
}

func TestCatalogListingsSorted(t *testing.T) {
	store := newTestStore(t)
	l := NewLedger(store)
	require.NoError(t, store.Update(func(doc *models.Document) error {
		doc.Categories["cat_0"] = &models.Category{Name: "Accounts", Banner: "N/A"}
		doc.Products["prod_2"] = &models.Product{CatID: "cat_0", Name: "Netflix Premium", Price: 180}
		return nil
	}))

	cats := l.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "cat_0", cats[0].ID)
	assert.Equal(t, "cat_1", cats[1].ID)

	prods := l.ProductsIn("cat_1")
	require.Len(t, prods, 1)
	assert.Equal(t, "prod_1", prods[0].ID)

	assert.Empty(t, l.ProductsIn("cat_empty"))
}

func TestProductLookup(t *testing.T) {
	l := NewLedger(newTestStore(t))

	p, err := l.Product("prod_1")
	require.NoError(t, err)
	assert.Equal(t, "ChatGPT Plus", p.Name)
	assert.Equal(t, 250, p.Price)

	_, err = l.Product("prod_missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestActivityLogNewestFirstAndCapped(t *testing.T) {
	store := newTestStore(t)
	l := NewLedger(store)

	for i := 0; i < models.MaxLogEntries+10; i++ {
		_, _, err := l.CreateOrder(42, "prod_1")
		require.NoError(t, err)
	}

	all := l.ActivityLog(models.MaxLogEntries + 10)
	assert.Len(t, all, models.MaxLogEntries, "ring is capped")
	assert.Contains(t, all[0], "order_159", "newest entry first")
	assert.Contains(t, all[0], "[12:00 01 Jun]")

	assert.Len(t, l.ActivityLog(10), 10)
}
