package services

import (
	"strconv"
	"strings"

	"github.com/powerpointbreak/storebot/app/models"
	"github.com/powerpointbreak/storebot/pkg/docstore"
	"github.com/powerpointbreak/storebot/pkg/logger"
	"github.com/powerpointbreak/storebot/pkg/metrics"
)

// Ledger owns the order lifecycle: creation, payment submission, operator
// decision, queue views and search. Every state transition runs its whole
// read-check-write sequence inside the document lock, so two racing decide
// calls cannot both pass the precondition — the loser observes
// ErrAlreadyDecided. No Messenger I/O happens under the lock: mutators return
// the data the caller needs to notify afterwards.
type Ledger struct {
	store *docstore.Store
}

// NewLedger returns a ledger over store.
func NewLedger(store *docstore.Store) *Ledger {
	return &Ledger{store: store}
}

// EnsureUser creates the user profile on first interaction and refreshes the
// display fields on later ones.
func (l *Ledger) EnsureUser(id int64, username, name string) error {
	return l.store.Update(func(doc *models.Document) error {
		key := userKey(id)
		if u, ok := doc.Users[key]; ok {
			u.Username = username
			u.Name = name
			return nil
		}
		if username == "" {
			username = "id_" + key
		}
		doc.Users[key] = &models.User{
			Username:   username,
			Name:       name,
			FirstOrder: nowFunc().Format(timeLayout),
			Level:      "NEW",
		}
		return nil
	})
}

const timeLayout = "2006-01-02T15:04:05"

// CreateOrder opens an order for user against productID, snapshotting the
// price. The id is "order_" + counter; the counter only ever moves up, so an
// id is never reissued.
func (l *Ledger) CreateOrder(userID int64, productID string) (string, models.Order, error) {
	var (
		id    string
		order models.Order
	)
	err := l.store.Update(func(doc *models.Document) error {
		prod, ok := doc.Products[productID]
		if !ok {
			return ErrProductNotFound
		}

		id = "order_" + strconv.Itoa(doc.NextOrderID)
		doc.NextOrderID++

		o := &models.Order{
			UserID:    userID,
			ProductID: productID,
			Price:     prod.Price,
			Status:    models.StatusWaitingPayment,
			CreatedAt: nowFunc().Format(timeLayout),
		}
		doc.Orders[id] = o
		doc.OrderSeq = append(doc.OrderSeq, id)

		if u, ok := doc.Users[userKey(userID)]; ok {
			u.TotalOrders++
			u.LastOrder = o.CreatedAt
		}

		doc.LogActivity(nowFunc(), "ORDER CREATED — "+id)
		order = *o
		return nil
	})
	if err != nil {
		return "", models.Order{}, err
	}

	metrics.OrdersTotal.WithLabelValues("created").Inc()
	logger.Info("order created", "order_id", id, "user_id", userID, "product_id", productID)
	return id, order, nil
}

// Submission carries everything the operator alert needs, assembled inside
// the lock so it is consistent with the transition it describes.
type Submission struct {
	OrderID     string
	UserID      int64
	Username    string
	ProductName string
	Price       int
	TxnID       string
	Sender      string
	Amount      int
}

// SubmitPayment parses raw ("TXNID|SENDER|AMOUNT", exactly three fields,
// integer amount equal to the snapshot price) and moves the order from
// waiting_payment to pending_approval. The transaction id is upper-cased
// before storage. Resubmission after the order has left waiting_payment is
// rejected with ErrNotAwaitingPayment so a duplicate message cannot
// double-process.
func (l *Ledger) SubmitPayment(orderID, raw string) (Submission, error) {
	parts := strings.Split(strings.TrimSpace(raw), "|")
	if len(parts) != 3 {
		return Submission{}, ErrBadFormat
	}
	txnID := strings.ToUpper(strings.TrimSpace(parts[0]))
	sender := strings.TrimSpace(parts[1])
	amount, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return Submission{}, ErrAmountNotInt
	}

	var sub Submission
	err = l.store.Update(func(doc *models.Document) error {
		order, ok := doc.Orders[orderID]
		if !ok {
			return ErrOrderNotFound
		}
		if order.Status != models.StatusWaitingPayment {
			return ErrNotAwaitingPayment
		}
		if amount != order.Price {
			return ErrAmountMismatch
		}

		order.Status = models.StatusPendingApproval
		order.TxnID = txnID
		order.SenderNumber = sender
		order.SubmittedAmount = amount

		username := "N/A"
		if u, ok := doc.Users[userKey(order.UserID)]; ok {
			u.PendingOrders++
			username = u.Username
		}
		productName := "Unknown Product"
		if prod, ok := doc.Products[order.ProductID]; ok {
			productName = prod.Name
		}

		doc.LogActivity(nowFunc(), "PAYMENT SUBMITTED — "+orderID)
		sub = Submission{
			OrderID:     orderID,
			UserID:      order.UserID,
			Username:    username,
			ProductName: productName,
			Price:       order.Price,
			TxnID:       txnID,
			Sender:      sender,
			Amount:      amount,
		}
		return nil
	})
	if err != nil {
		return Submission{}, err
	}

	metrics.OrdersTotal.WithLabelValues("payment_submitted").Inc()
	metrics.PendingOrders.Inc()
	logger.Info("payment submitted", "order_id", orderID, "txn_id", txnID)
	return sub, nil
}

// Decision reports the outcome of a Decide call.
type Decision struct {
	OrderID     string
	Approved    bool
	UserID      int64
	ProductID   string
	ProductName string
	Price       int
	Credential  string // set only on approval
}

// Decide applies the operator verdict to a pending order. Approval allocates
// exactly one credential FIFO from the product's pool; with nothing to
// allocate it fails with ErrStockExhausted and the order stays pending for a
// retry after restock. Any order no longer pending fails with
// ErrAlreadyDecided — the check and the transition share one critical
// section, so a double-press races to a single delivery.
func (l *Ledger) Decide(orderID string, approve bool) (Decision, error) {
	var dec Decision
	err := l.store.Update(func(doc *models.Document) error {
		order, ok := doc.Orders[orderID]
		if !ok {
			return ErrOrderNotFound
		}
		if order.Status != models.StatusPendingApproval {
			return ErrAlreadyDecided
		}

		productName := "Unknown Product"
		if prod, ok := doc.Products[order.ProductID]; ok {
			productName = prod.Name
		}
		dec = Decision{
			OrderID:     orderID,
			Approved:    approve,
			UserID:      order.UserID,
			ProductID:   order.ProductID,
			ProductName: productName,
			Price:       order.Price,
		}

		if approve {
			credential, err := allocate(doc, order.ProductID)
			if err != nil {
				return err // order untouched, still pending
			}
			order.Status = models.StatusDelivered
			order.Delivery = credential
			dec.Credential = credential

			if u, ok := doc.Users[userKey(order.UserID)]; ok {
				u.CompletedOrders++
				u.TotalSpent += order.Price
				u.PendingOrders = max(0, u.PendingOrders-1)
			}
			doc.LogActivity(nowFunc(), "ORDER APPROVED — "+orderID)
			metrics.StockAvailable.WithLabelValues(order.ProductID).
				Set(float64(countUnused(doc.Stock[order.ProductID])))
			return nil
		}

		order.Status = models.StatusRejected
		if u, ok := doc.Users[userKey(order.UserID)]; ok {
			u.RejectedOrders++
			u.PendingOrders = max(0, u.PendingOrders-1)
		}
		doc.LogActivity(nowFunc(), "ORDER REJECTED — "+orderID)
		return nil
	})
	if err != nil {
		return Decision{}, err
	}

	if approve {
		metrics.OrdersTotal.WithLabelValues("approved").Inc()
		metrics.StockAllocated.WithLabelValues(dec.ProductID).Inc()
	} else {
		metrics.OrdersTotal.WithLabelValues("rejected").Inc()
	}
	metrics.PendingOrders.Dec()
	logger.Info("order decided", "order_id", orderID, "approved", approve)
	return dec, nil
}
