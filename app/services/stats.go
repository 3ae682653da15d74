package services

import (
	"fmt"

	"github.com/powerpointbreak/storebot/app/models"
)

// Stats is the aggregate statistics view shown to the operator.
type Stats struct {
	Users           int
	Orders          int
	PendingApproval int
	Completed       int
	Rejected        int
	Categories      int
	Products        int
	StockAvailable  int
}

// CollectStats computes the aggregate view in one pass under the read lock.
func (l *Ledger) CollectStats() Stats {
	var s Stats
	l.store.View(func(doc *models.Document) {
		s.Users = len(doc.Users)
		s.Orders = len(doc.Orders)
		s.Categories = len(doc.Categories)
		s.Products = len(doc.Products)
		for _, o := range doc.Orders {
			switch o.Status {
			case models.StatusDelivered:
				s.Completed++
			case models.StatusPendingApproval:
				s.PendingApproval++
			case models.StatusRejected:
				s.Rejected++
			}
		}
		for _, list := range doc.Stock {
			s.StockAvailable += countUnused(list)
		}
	})
	return s
}

// String renders the stats block for chat or CLI display.
func (s Stats) String() string {
	return fmt.Sprintf(
		"BOT STATISTICS\n\n"+
			"Total Users: %d\nTotal Orders: %d\n"+
			"Pending Approval: %d\nCompleted: %d\nRejected: %d\n\n"+
			"Categories: %d\nProducts: %d\nStock Available: %d",
		s.Users, s.Orders, s.PendingApproval, s.Completed, s.Rejected,
		s.Categories, s.Products, s.StockAvailable)
}
