// Package bot routes inbound chat updates to the order core: dialog flows
// first, then payment submissions, then menu navigation. It owns no business
// rules — every mutation happens in app/services under the document lock, and
// every outbound message goes through the notification router or the
// messenger directly, after the lock is released.
package bot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/powerpointbreak/storebot/app/models"
	"github.com/powerpointbreak/storebot/app/services"
	"github.com/powerpointbreak/storebot/pkg/dialog"
	"github.com/powerpointbreak/storebot/pkg/docstore"
	"github.com/powerpointbreak/storebot/pkg/logger"
	"github.com/powerpointbreak/storebot/pkg/messenger"
	"github.com/powerpointbreak/storebot/pkg/metrics"
)

// Config carries the static identities and strings the dispatcher needs.
type Config struct {
	OperatorID    int64
	PaymentNumber string
	SupportHandle string
}

// Bot is the dispatcher.
type Bot struct {
	cfg     Config
	m       messenger.Messenger
	ledger  *services.Ledger
	stock   *services.StockPool
	router  *services.Router
	dialogs *dialog.Engine

	mu       sync.Mutex
	awaiting map[int64]string // user id → order id awaiting payment proof
}

// New wires a dispatcher over an opened store.
func New(cfg Config, m messenger.Messenger, store *docstore.Store) *Bot {
	return &Bot{
		cfg:      cfg,
		m:        m,
		ledger:   services.NewLedger(store),
		stock:    services.NewStockPool(store),
		router:   services.NewRouter(m, cfg.OperatorID, cfg.SupportHandle),
		dialogs:  dialog.NewEngine(),
		awaiting: map[int64]string{},
	}
}

// Ledger exposes the order core for the CLI and tests.
func (b *Bot) Ledger() *services.Ledger { return b.ledger }

// Stock exposes the pool for the CLI and tests.
func (b *Bot) Stock() *services.StockPool { return b.stock }

// Router exposes the notification router for the sweeper.
func (b *Bot) Router() *services.Router { return b.router }

// NewSweeper builds the background sweeper bound to this bot's pool and
// router.
func (b *Bot) NewSweeper(store *docstore.Store, threshold int) *services.Sweeper {
	return services.NewSweeper(b.stock, b.router, store, threshold)
}

func (b *Bot) isOperator(id int64) bool {
	return b.cfg.OperatorID != 0 && id == b.cfg.OperatorID
}

// Dispatch handles one inbound update to completion.
func (b *Bot) Dispatch(u messenger.Update) {
	if u.IsCallback() {
		metrics.UpdatesTotal.WithLabelValues("callback").Inc()
		b.handleCallback(u)
		return
	}
	metrics.UpdatesTotal.WithLabelValues("text").Inc()
	b.handleText(u)
}

func (b *Bot) handleText(u messenger.Update) {
	// An active admin dialog consumes the operator's text first.
	if b.isOperator(u.From) {
		eff, active, err := b.dialogs.Step(u.From, dialog.Input{Text: u.Text})
		if active {
			if err != nil {
				b.reply(u.From, "Input not understood. Send the requested value or press Cancel.")
				return
			}
			b.applyEffect(u.From, eff)
			return
		}
	}

	switch u.Text {
	case "/start":
		b.handleStart(u)
	case "/panel":
		if b.isOperator(u.From) {
			b.sendAdminPanel(u.From)
		}
	case "🛒 Buy Subscription":
		b.showCategories(u.From)
	case "📦 My Orders":
		b.showUserOrders(u.From)
	case "🆘 Support":
		b.reply(u.From, "SUPPORT CENTER\n\nFor help contact: "+b.cfg.SupportHandle+
			"\n\nSend your Order ID and problem details.")
	case "🎁 Offers":
		b.reply(u.From, "OFFERS\n\nCurrently no offers available.")
	case "👤 Profile":
		b.showProfile(u.From)
	default:
		b.maybePayment(u)
	}
}

// maybePayment treats free text as a payment submission when the user has an
// order awaiting one.
func (b *Bot) maybePayment(u messenger.Update) {
	orderID := b.awaitingOrder(u.From)
	if orderID == "" {
		return
	}

	sub, err := b.ledger.SubmitPayment(orderID, u.Text)
	switch {
	case errors.Is(err, services.ErrBadFormat):
		b.reply(u.From, "Invalid format. Submit payment as: TXNID|SENDER_NUMBER|AMOUNT")
		return
	case errors.Is(err, services.ErrAmountNotInt):
		b.reply(u.From, "Amount must be a number.")
		return
	case errors.Is(err, services.ErrAmountMismatch):
		view, verr := b.ledger.Order(orderID)
		if verr == nil {
			b.reply(u.From, fmt.Sprintf("Amount mismatch. The required price is %d.", view.Order.Price))
		} else {
			b.reply(u.From, "Amount mismatch.")
		}
		return
	case errors.Is(err, services.ErrNotAwaitingPayment):
		b.clearAwaiting(u.From)
		b.reply(u.From, "This order has already been submitted.")
		return
	case errors.Is(err, services.ErrOrderNotFound):
		b.clearAwaiting(u.From)
		b.reply(u.From, "Error finding your order. Please contact support.")
		return
	case err != nil:
		logger.Error("payment submission failed", "order_id", orderID, "error", err)
		return
	}

	b.clearAwaiting(u.From)
	b.reply(u.From, fmt.Sprintf("Payment submitted! Your order %s is now pending approval.", orderID))
	b.router.PendingOrderAlert(sub)
}

func (b *Bot) handleStart(u messenger.Update) {
	if b.isOperator(u.From) {
		b.sendAdminPanel(u.From)
		return
	}
	if err := b.ledger.EnsureUser(u.From, u.Username, u.Name); err != nil {
		logger.Error("user bootstrap failed", "user_id", u.From, "error", err)
	}
	b.reply(u.From, "Welcome to the store! Choose an option from the menu below.")
}

// awaitingOrder returns the order the user should be paying for: the one
// recorded at Buy Now, or — after a restart — the user's newest order still
// in waiting_payment.
func (b *Bot) awaitingOrder(user int64) string {
	b.mu.Lock()
	id := b.awaiting[user]
	b.mu.Unlock()
	if id != "" {
		return id
	}

	orders := b.ledger.OrdersForUser(user)
	for i := len(orders) - 1; i >= 0; i-- {
		if orders[i].Order.Status == models.StatusWaitingPayment {
			return orders[i].ID
		}
	}
	return ""
}

func (b *Bot) setAwaiting(user int64, orderID string) {
	b.mu.Lock()
	b.awaiting[user] = orderID
	b.mu.Unlock()
}

func (b *Bot) clearAwaiting(user int64) {
	b.mu.Lock()
	delete(b.awaiting, user)
	b.mu.Unlock()
}

func (b *Bot) reply(to int64, text string) {
	if err := b.m.Send(to, messenger.Content{Text: text}); err != nil {
		metrics.NotifyFailures.Inc()
		logger.Warn("reply failed", "recipient", to, "error", err)
	}
}

func (b *Bot) edit(ref messenger.MessageRef, c messenger.Content) {
	if err := b.m.Edit(ref, c); err != nil {
		logger.Warn("edit failed", "chat", ref.ChatID, "error", err)
	}
}
