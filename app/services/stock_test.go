package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powerpointbreak/storebot/app/models"
)

func TestBulkAddReportsRejectedLines(t *testing.T) {
	store := newTestStore(t)
	pool := NewStockPool(store)

	report, err := pool.BulkAdd("prod_1", []string{
		"a@x|pw1",
		"",              // blank, skipped
		"no-separator",  // rejected
		"  b@x|pw2  ",   // trimmed, accepted
		"c@x|pw|extra7", // extra separators are fine, stored verbatim
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Accepted)
	assert.Equal(t, []int{3}, report.Rejected, "line numbers are 1-based over the raw input")

	store.View(func(doc *models.Document) {
		list := doc.Stock["prod_1"]
		require.Len(t, list, 5) // 2 seeded + 3 accepted
		assert.Equal(t, "a@x|pw1", list[2].Credential)
		assert.Equal(t, "b@x|pw2", list[3].Credential)
		assert.Equal(t, "c@x|pw|extra7", list[4].Credential)
		assert.False(t, list[2].Used)
	})
}

func TestBulkAddUnknownProduct(t *testing.T) {
	pool := NewStockPool(newTestStore(t))
	_, err := pool.BulkAdd("prod_missing", []string{"a@x|pw"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAllocateIsStrictFIFO(t *testing.T) {
	store := newTestStore(t)

	var got []string
	for i := 0; i < 2; i++ {
		require.NoError(t, store.Update(func(doc *models.Document) error {
			cred, err := allocate(doc, "prod_1")
			if err != nil {
				return err
			}
			got = append(got, cred)
			return nil
		}))
	}
	assert.Equal(t, []string{"user@mail.com|pass123", "user4@mail.com|pass456"}, got)

	err := store.Update(func(doc *models.Document) error {
		_, err := allocate(doc, "prod_1")
		return err
	})
	assert.ErrorIs(t, err, ErrStockExhausted)
}

func TestAllocateNeverReuses(t *testing.T) {
	store := newTestStore(t)
	// Mark the first item used out-of-band; allocation must skip it.
	require.NoError(t, store.Update(func(doc *models.Document) error {
		doc.Stock["prod_1"][0].Used = true
		return nil
	}))

	require.NoError(t, store.Update(func(doc *models.Document) error {
		cred, err := allocate(doc, "prod_1")
		if err != nil {
			return err
		}
		assert.Equal(t, "user4@mail.com|pass456", cred)
		return nil
	}))
}

func TestCounts(t *testing.T) {
	store := newTestStore(t)
	pool := NewStockPool(store)

	assert.Equal(t, 2, pool.AvailableCount("prod_1"))
	assert.Equal(t, 0, pool.UsedCount("prod_1"))
	assert.Equal(t, 0, pool.AvailableCount("prod_unknown"))

	require.NoError(t, store.Update(func(doc *models.Document) error {
		_, err := allocate(doc, "prod_1")
		return err
	}))

	assert.Equal(t, 1, pool.AvailableCount("prod_1"))
	assert.Equal(t, 1, pool.UsedCount("prod_1"))

	available, used := pool.Totals()
	assert.Equal(t, 1, available)
	assert.Equal(t, 1, used)
}

func TestLowStock(t *testing.T) {
	store := newTestStore(t)
	pool := NewStockPool(store)

	require.NoError(t, store.Update(func(doc *models.Document) error {
		doc.Products["prod_2"] = &models.Product{CatID: "cat_1", Name: "Netflix Premium", Price: 180}
		doc.Stock["prod_2"] = make([]models.StockItem, 0)
		for i := 0; i < 8; i++ {
			doc.Stock["prod_2"] = append(doc.Stock["prod_2"], models.StockItem{Credential: "n@x|pw"})
		}
		return nil
	}))

	items := pool.LowStock(5)
	require.Len(t, items, 1, "prod_2 sits above the threshold")
	assert.Equal(t, LowStockItem{ProductID: "prod_1", Name: "ChatGPT Plus", Available: 2}, items[0])

	// A fully drained pool is still reported, at zero.
	require.NoError(t, store.Update(func(doc *models.Document) error {
		for i := range doc.Stock["prod_1"] {
			doc.Stock["prod_1"][i].Used = true
		}
		return nil
	}))
	items = pool.LowStock(5)
	require.Len(t, items, 1)
	assert.Equal(t, 0, items[0].Available)
}
