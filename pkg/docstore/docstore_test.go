package docstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powerpointbreak/storebot/app/models"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")

	store, err := Open(path)
	require.NoError(t, err)

	err = store.Update(func(doc *models.Document) error {
		doc.Categories["cat_1"] = &models.Category{Name: "ChatGPT & AI", Banner: "N/A"}
		doc.Products["prod_1"] = &models.Product{CatID: "cat_1", Name: "ChatGPT Plus", Price: 250}
		doc.Stock["prod_1"] = []models.StockItem{{Credential: "a@x|pw1"}}
		doc.Users["42"] = &models.User{Username: "buyer", Level: "NEW"}
		doc.Orders["order_100"] = &models.Order{UserID: 42, ProductID: "prod_1", Price: 250, Status: models.StatusWaitingPayment}
		doc.OrderSeq = []string{"order_100"}
		doc.NextOrderID = 101
		return nil
	})
	require.NoError(t, err)

	reloaded, err := Open(path)
	require.NoError(t, err)

	var before, after *models.Document
	store.View(func(d *models.Document) { before = d })
	reloaded.View(func(d *models.Document) { after = d })
	assert.Equal(t, before, after)
}

func TestOpenMissingFileStartsFresh(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	store.View(func(doc *models.Document) {
		assert.Empty(t, doc.Orders)
		assert.Equal(t, models.FirstOrderID, doc.NextOrderID)
	})
}

func TestOpenCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := Open(path)
	require.NoError(t, err)
	store.View(func(doc *models.Document) {
		assert.Empty(t, doc.Users)
		assert.NotNil(t, doc.Stock)
	})
}

func TestUpdateErrorDoesNotPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	store, err := Open(path)
	require.NoError(t, err)

	err = store.Update(func(doc *models.Document) error {
		return os.ErrInvalid
	})
	assert.ErrorIs(t, err, os.ErrInvalid)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "aborted update must not write the file")
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "database.json"))
	require.NoError(t, err)

	require.NoError(t, store.Update(func(doc *models.Document) error {
		doc.NextOrderID++
		return nil
	}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestSnapshotIsPrettyPrinted(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)

	raw, err := store.Snapshot()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"users\"")
}
