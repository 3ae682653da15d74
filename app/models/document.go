// Package models defines the persisted document shape for the storefront bot.
//
// The Document is the aggregate root: every entity lives inside it and is
// addressed by key, so the whole graph serializes to (and from) a single JSON
// file. Field tags match the legacy database.json keys exactly — an existing
// file loads without migration.
package models

import "time"

// Order statuses. delivered and rejected are terminal.
const (
	StatusWaitingPayment  = "waiting_payment"
	StatusPendingApproval = "pending_approval"
	StatusDelivered       = "delivered"
	StatusRejected        = "rejected"
)

// MaxLogEntries caps the activity log ring.
const MaxLogEntries = 50

// FirstOrderID is the counter value a fresh document starts from.
const FirstOrderID = 100

// User is a customer profile, created on first interaction and never deleted.
type User struct {
	Username        string `json:"username"`
	Name            string `json:"name"`
	TotalSpent      int    `json:"total_spent"`
	TotalOrders     int    `json:"total_orders"`
	CompletedOrders int    `json:"completed_orders"`
	PendingOrders   int    `json:"pending_orders"`
	RejectedOrders  int    `json:"rejected_orders"`
	FirstOrder      string `json:"first_order"`
	LastOrder       string `json:"last_order,omitempty"`
	Level           string `json:"level"`
}

// Category is a catalog grouping. Immutable once created.
type Category struct {
	Name   string `json:"name"`
	Banner string `json:"banner"`
}

// Product is a sellable catalog entry. CatID must reference an existing
// Category.
type Product struct {
	CatID    string `json:"cat_id"`
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Price    int    `json:"price"`
	Country  string `json:"country"`
	Rules    string `json:"rules"`
	Photo    string `json:"photo,omitempty"`
}

// StockItem is one fulfillment credential. The used flag flips false→true
// exactly once, at delivery; items are never deleted or reused.
type StockItem struct {
	Credential string `json:"credential"`
	Used       bool   `json:"used"`
}

// Order tracks a single purchase from intent to terminal state. Price is a
// snapshot taken at creation and never changes afterwards.
type Order struct {
	UserID          int64  `json:"user_id"`
	ProductID       string `json:"product_id"`
	Price           int    `json:"price"`
	Status          string `json:"status"`
	TxnID           string `json:"txn_id,omitempty"`
	SenderNumber    string `json:"sender_number,omitempty"`
	SubmittedAmount int    `json:"submitted_amount,omitempty"`
	Delivery        string `json:"delivery_credential,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// Terminal reports whether the order can no longer change status.
func (o *Order) Terminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusRejected
}

// Document is the single shared mutable root. Orders keeps insertion order in
// OrderSeq so the pending queue iterates in creation order; the map is the
// lookup index.
type Document struct {
	Users       map[string]*User       `json:"users"`
	Categories  map[string]*Category   `json:"categories"`
	Products    map[string]*Product    `json:"products"`
	Stock       map[string][]StockItem `json:"stock"`
	Orders      map[string]*Order      `json:"orders"`
	OrderSeq    []string               `json:"order_seq"`
	Logs        []string               `json:"logs"`
	NextOrderID int                    `json:"next_order_id"`
}

// NewDocument returns an empty document with all maps allocated.
func NewDocument() *Document {
	return &Document{
		Users:       map[string]*User{},
		Categories:  map[string]*Category{},
		Products:    map[string]*Product{},
		Stock:       map[string][]StockItem{},
		Orders:      map[string]*Order{},
		NextOrderID: FirstOrderID,
	}
}

// Normalize repairs shape defaults after deserialization: nil maps are
// allocated, the order counter is floored, and OrderSeq is rebuilt from the
// order map if a legacy file lacks it (sorted by created_at, then id, so the
// sequence still reflects creation order).
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = map[string]*User{}
	}
	if d.Categories == nil {
		d.Categories = map[string]*Category{}
	}
	if d.Products == nil {
		d.Products = map[string]*Product{}
	}
	if d.Stock == nil {
		d.Stock = map[string][]StockItem{}
	}
	if d.Orders == nil {
		d.Orders = map[string]*Order{}
	}
	if d.NextOrderID < FirstOrderID {
		d.NextOrderID = FirstOrderID
	}
	if len(d.OrderSeq) != len(d.Orders) {
		d.OrderSeq = rebuildSeq(d.Orders)
	}
	if len(d.Logs) > MaxLogEntries {
		d.Logs = d.Logs[:MaxLogEntries]
	}
}

func rebuildSeq(orders map[string]*Order) []string {
	seq := make([]string, 0, len(orders))
	for id := range orders {
		seq = append(seq, id)
	}
	// Insertion sort by (created_at, id); order files are small.
	for i := 1; i < len(seq); i++ {
		for j := i; j > 0; j-- {
			a, b := orders[seq[j-1]], orders[seq[j]]
			if a.CreatedAt < b.CreatedAt || (a.CreatedAt == b.CreatedAt && seq[j-1] < seq[j]) {
				break
			}
			seq[j-1], seq[j] = seq[j], seq[j-1]
		}
	}
	return seq
}

// LogActivity prepends a timestamped entry to the activity ring, trimming to
// MaxLogEntries.
func (d *Document) LogActivity(now time.Time, action string) {
	entry := "[" + now.Format("15:04 02 Jan") + "] " + action
	d.Logs = append([]string{entry}, d.Logs...)
	if len(d.Logs) > MaxLogEntries {
		d.Logs = d.Logs[:MaxLogEntries]
	}
}
