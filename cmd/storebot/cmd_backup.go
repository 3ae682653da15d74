package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/powerpointbreak/storebot/config"
	"github.com/powerpointbreak/storebot/pkg/docstore"
	"github.com/powerpointbreak/storebot/pkg/storage"
)

// storebot backup — one-shot document snapshot to the configured disk.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a document snapshot to the configured backup disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		storage.Connect()

		disk, err := storage.Use(config.BackupDisk())
		if err != nil {
			return err
		}

		store, err := docstore.Open(config.DocumentPath())
		if err != nil {
			return err
		}
		raw, err := store.Snapshot()
		if err != nil {
			return err
		}

		name := fmt.Sprintf("%s/database-%s.json",
			config.BackupDir(), time.Now().Format("20060102-150405"))
		if err := disk.Put(name, raw); err != nil {
			return err
		}
		fmt.Printf("backup written: %s (%d bytes)\n", name, len(raw))
		return nil
	},
}
