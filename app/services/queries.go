package services

import (
	"strings"

	"github.com/powerpointbreak/storebot/app/models"
)

// OrderView is a keyed copy of an order, safe to hold outside the lock.
type OrderView struct {
	ID    string
	Order models.Order
}

// PendingQueue returns every order awaiting approval, in creation order. The
// queue is recomputed per call, so positions shift as orders resolve —
// prev/next navigation is relative to the current queue, never a frozen
// snapshot.
func (l *Ledger) PendingQueue() []OrderView {
	var queue []OrderView
	l.store.View(func(doc *models.Document) {
		for _, id := range doc.OrderSeq {
			o := doc.Orders[id]
			if o != nil && o.Status == models.StatusPendingApproval {
				queue = append(queue, OrderView{ID: id, Order: *o})
			}
		}
	})
	return queue
}

// Order returns a copy of one order.
func (l *Ledger) Order(orderID string) (OrderView, error) {
	var (
		view  OrderView
		found bool
	)
	l.store.View(func(doc *models.Document) {
		if o, ok := doc.Orders[orderID]; ok {
			view, found = OrderView{ID: orderID, Order: *o}, true
		}
	})
	if !found {
		return OrderView{}, ErrOrderNotFound
	}
	return view, nil
}

// OrdersForUser returns the user's full history in creation order.
func (l *Ledger) OrdersForUser(userID int64) []OrderView {
	var out []OrderView
	l.store.View(func(doc *models.Document) {
		for _, id := range doc.OrderSeq {
			o := doc.Orders[id]
			if o != nil && o.UserID == userID {
				out = append(out, OrderView{ID: id, Order: *o})
			}
		}
	})
	return out
}

// MatchKind labels what a search result matched on.
type MatchKind string

const (
	MatchOrderID MatchKind = "Order ID"
	MatchTxnID   MatchKind = "TXN ID"
	MatchUserID  MatchKind = "User ID"
)

// SearchResult is one search hit.
type SearchResult struct {
	OrderView
	MatchedBy MatchKind
	Username  string
	Product   string
}

// Search matches term against order ids (exact, case-insensitive), then
// transaction ids (exact, case-insensitive), then — for all-digit terms —
// user ids. Order-id and txn-id matches are unique, so the scan stops at the
// first hit; a user-id match collects the user's every order.
func (l *Ledger) Search(term string) []SearchResult {
	term = strings.TrimSpace(term)
	isNumeric := term != "" && strings.Trim(term, "0123456789") == ""

	var results []SearchResult
	l.store.View(func(doc *models.Document) {
		for _, id := range doc.OrderSeq {
			o := doc.Orders[id]
			if o == nil {
				continue
			}

			var kind MatchKind
			switch {
			case strings.EqualFold(term, id):
				kind = MatchOrderID
			case o.TxnID != "" && strings.EqualFold(term, o.TxnID):
				kind = MatchTxnID
			case isNumeric && userKey(o.UserID) == term:
				kind = MatchUserID
			default:
				continue
			}

			r := SearchResult{
				OrderView: OrderView{ID: id, Order: *o},
				MatchedBy: kind,
				Product:   "Unknown Product",
				Username:  "N/A",
			}
			if prod, ok := doc.Products[o.ProductID]; ok {
				r.Product = prod.Name
			}
			if u, ok := doc.Users[userKey(o.UserID)]; ok {
				r.Username = u.Username
			}
			results = append(results, r)

			if kind != MatchUserID {
				return // order and txn ids match at most one order
			}
		}
	})
	return results
}

// Reminder pairs a user with one representative pending order.
type Reminder struct {
	UserID  int64
	OrderID string
}

// PendingReminders returns the distinct users holding at least one pending
// order, each with their earliest pending order id.
func (l *Ledger) PendingReminders() []Reminder {
	var out []Reminder
	seen := map[int64]bool{}
	for _, v := range l.PendingQueue() {
		if seen[v.Order.UserID] {
			continue
		}
		seen[v.Order.UserID] = true
		out = append(out, Reminder{UserID: v.Order.UserID, OrderID: v.ID})
	}
	return out
}

// Profile is the derived per-user view. Counts are computed from the order
// history, not the stored counters, so they are correct even for profiles
// predating a counter.
type Profile struct {
	UserID     int64
	Username   string
	Name       string
	Total      int
	Completed  int
	Pending    int
	Rejected   int
	TotalSpent int
	FirstOrder string
	Level      string
}

// ProfileFor assembles the user's profile view.
func (l *Ledger) ProfileFor(userID int64) Profile {
	p := Profile{UserID: userID, Username: "N/A", Level: "NEW"}
	l.store.View(func(doc *models.Document) {
		if u, ok := doc.Users[userKey(userID)]; ok {
			p.Username = u.Username
			p.Name = u.Name
			p.TotalSpent = u.TotalSpent
			p.FirstOrder = u.FirstOrder
			p.Level = u.Level
		}
		for _, o := range doc.Orders {
			if o.UserID != userID {
				continue
			}
			p.Total++
			switch o.Status {
			case models.StatusDelivered:
				p.Completed++
			case models.StatusRejected:
				p.Rejected++
			default:
				p.Pending++
			}
		}
	})
	return p
}
