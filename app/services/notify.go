package services

import (
	"fmt"
	"strings"

	"github.com/powerpointbreak/storebot/pkg/action"
	"github.com/powerpointbreak/storebot/pkg/logger"
	"github.com/powerpointbreak/storebot/pkg/messenger"
	"github.com/powerpointbreak/storebot/pkg/metrics"
)

// Router pushes operator and user alerts through the Messenger collaborator.
// Delivery is fire-and-forget: one blocked recipient never aborts a batch,
// failures are counted and logged, and batch operations report how many sends
// landed.
type Router struct {
	m        messenger.Messenger
	operator int64
	support  string
}

// NewRouter wires a router to the messenger and the configured operator.
func NewRouter(m messenger.Messenger, operator int64, support string) *Router {
	return &Router{m: m, operator: operator, support: support}
}

func (r *Router) send(to int64, c messenger.Content) bool {
	if err := r.m.Send(to, c); err != nil {
		metrics.NotifyFailures.Inc()
		logger.Warn("notify: delivery failed", "recipient", to, "error", err)
		return false
	}
	return true
}

// PendingOrderAlert tells the operator about a fresh payment submission, with
// approve/reject buttons keyed by order id.
func (r *Router) PendingOrderAlert(sub Submission) {
	text := fmt.Sprintf(
		"ACTION REQUIRED: NEW PENDING ORDER\n\n"+
			"Order ID: %s\nProduct: %s\nUser: @%s (ID: %d)\nPrice: %d\n\n"+
			"Submitted TXN: %s\nSender: %s\nAmount: %d",
		sub.OrderID, sub.ProductName, sub.Username, sub.UserID, sub.Price,
		sub.TxnID, sub.Sender, sub.Amount)

	r.send(r.operator, messenger.Content{
		Text: text,
		Buttons: [][]messenger.Button{{
			{Label: "Approve", Payload: action.Action{Kind: action.ApproveOrder, Arg: sub.OrderID}.Encode()},
			{Label: "Reject", Payload: action.Action{Kind: action.RejectOrder, Arg: sub.OrderID}.Encode()},
		}},
	})
}

// DecisionOutcome tells the buyer how their order resolved. On approval the
// credential is split on its first "|" into identifier and secret for
// display; rejection carries no detail.
func (r *Router) DecisionOutcome(dec Decision) {
	if !dec.Approved {
		r.send(dec.UserID, messenger.Content{
			Text: fmt.Sprintf("Your order %s has been rejected. "+
				"Please contact support if you believe this is an error.", dec.OrderID),
		})
		return
	}

	id, secret, _ := strings.Cut(dec.Credential, "|")
	r.send(dec.UserID, messenger.Content{
		Text: fmt.Sprintf("Your order %s has been delivered!\n\n"+
			"Username: %s\nPassword: %s\n\nNeed help? Contact %s",
			dec.OrderID, id, secret, r.support),
	})
}

// LowStockAlert sends the operator one message naming every product at or
// below the threshold. No-op for an empty sweep result.
func (r *Router) LowStockAlert(threshold int, items []LowStockItem) {
	if len(items) == 0 {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "LOW STOCK ALERT\n\nProducts with %d or fewer items in stock:\n", threshold)
	for _, item := range items {
		fmt.Fprintf(&b, "• %s: %d items left\n", item.Name, item.Available)
	}
	r.send(r.operator, messenger.Content{Text: b.String()})
}

// RemindPending nudges each distinct user with a pending order, naming one
// representative order id. Returns how many reminders were delivered.
func (r *Router) RemindPending(reminders []Reminder) int {
	var sent int
	for _, rem := range reminders {
		ok := r.send(rem.UserID, messenger.Content{
			Text: fmt.Sprintf("ORDER REMINDER\n\nYour order %s is still pending approval.\n"+
				"The operator will review it soon.", rem.OrderID),
		})
		if ok {
			sent++
		}
	}
	return sent
}
