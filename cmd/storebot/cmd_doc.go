package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/powerpointbreak/storebot/app/models"
	"github.com/powerpointbreak/storebot/app/services"
	"github.com/powerpointbreak/storebot/config"
	"github.com/powerpointbreak/storebot/pkg/docstore"
)

// storebot doc:init — create a seeded document if none exists.
var docInitCmd = &cobra.Command{
	Use:   "doc:init",
	Short: "Create the persisted document with starter catalog data",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		path := config.DocumentPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("doc:init: %s already exists", path)
		}

		store, err := docstore.Open(path)
		if err != nil {
			return err
		}
		err = store.Update(func(doc *models.Document) error {
			doc.Categories["cat_1"] = &models.Category{Name: "ChatGPT & AI", Banner: "N/A"}
			doc.Categories["cat_2"] = &models.Category{Name: "YouTube Premium", Banner: "N/A"}
			doc.Products["prod_1"] = &models.Product{
				CatID:    "cat_1",
				Name:     "ChatGPT Plus",
				Duration: "1 Month",
				Price:    250,
				Country:  "Turkey",
				Rules:    "• Don't change password\n• No refund after delivery",
			}
			doc.Stock["prod_1"] = []models.StockItem{
				{Credential: "user@mail.com|pass123"},
				{Credential: "user4@mail.com|pass456"},
			}
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("created %s with starter data\n", path)
		return nil
	},
}

// storebot doc:stats — print the aggregate statistics block.
var docStatsCmd = &cobra.Command{
	Use:   "doc:stats",
	Short: "Print aggregate statistics from the persisted document",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		store, err := docstore.Open(config.DocumentPath())
		if err != nil {
			return err
		}
		fmt.Println(services.NewLedger(store).CollectStats().String())
		return nil
	},
}
