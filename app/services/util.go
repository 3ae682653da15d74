package services

import (
	"sort"
	"strconv"
	"time"

	"github.com/powerpointbreak/storebot/app/models"
)

// nowFunc is swapped in tests for deterministic timestamps.
var nowFunc = time.Now

func itoa(n int) string { return strconv.Itoa(n) }

func sortedKeys(m map[string][]models.StockItem) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func userKey(id int64) string { return strconv.FormatInt(id, 10) }
