package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/powerpointbreak/storebot/pkg/docstore"
	"github.com/powerpointbreak/storebot/pkg/logger"
	"github.com/powerpointbreak/storebot/pkg/storage"
)

// Sweeper runs the periodic background jobs: the low-stock check and,
// optionally, document snapshot backups. Jobs read through the same store
// lock discipline as event handlers and never send messages while holding
// it — LowStock copies what it needs out, then the alert goes out.
type Sweeper struct {
	cron      *cron.Cron
	stock     *StockPool
	router    *Router
	store     *docstore.Store
	threshold int
}

// NewSweeper builds an idle sweeper; Start registers and runs the jobs.
func NewSweeper(stock *StockPool, router *Router, store *docstore.Store, threshold int) *Sweeper {
	return &Sweeper{
		cron:      cron.New(),
		stock:     stock,
		router:    router,
		store:     store,
		threshold: threshold,
	}
}

// Start registers the low-stock job under sweepSpec and, when backupSpec is
// non-empty, the snapshot job against the named storage disk.
func (s *Sweeper) Start(sweepSpec, backupSpec, backupDisk, backupDir string) error {
	if _, err := s.cron.AddFunc(sweepSpec, s.CheckLowStock); err != nil {
		return fmt.Errorf("sweeper: bad sweep spec %q: %w", sweepSpec, err)
	}
	if backupSpec != "" {
		if _, err := s.cron.AddFunc(backupSpec, func() { s.Backup(backupDisk, backupDir) }); err != nil {
			return fmt.Errorf("sweeper: bad backup spec %q: %w", backupSpec, err)
		}
	}
	s.cron.Start()
	logger.Info("sweeper started", "sweep", sweepSpec, "backup", backupSpec)
	return nil
}

// Stop halts the schedule; running jobs finish.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// CheckLowStock alerts the operator once per sweep when any product's
// available count is at or below the threshold.
func (s *Sweeper) CheckLowStock() {
	items := s.stock.LowStock(s.threshold)
	if len(items) == 0 {
		return
	}
	logger.Info("low stock detected", "products", len(items))
	s.router.LowStockAlert(s.threshold, items)
}

// Backup writes the current document snapshot to the named disk under
// dir/database-<timestamp>.json.
func (s *Sweeper) Backup(diskName, dir string) {
	disk, err := storage.Use(diskName)
	if err != nil {
		logger.Error("backup skipped", "error", err)
		return
	}
	raw, err := s.store.Snapshot()
	if err != nil {
		logger.Error("backup snapshot failed", "error", err)
		return
	}
	name := fmt.Sprintf("%s/database-%s.json", dir, time.Now().Format("20060102-150405"))
	if err := disk.Put(name, raw); err != nil {
		logger.Error("backup write failed", "path", name, "error", err)
		return
	}
	logger.Info("backup written", "disk", diskName, "path", name, "bytes", len(raw))
}
