package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/powerpointbreak/storebot/app/services"
	"github.com/powerpointbreak/storebot/pkg/action"
	"github.com/powerpointbreak/storebot/pkg/dialog"
	"github.com/powerpointbreak/storebot/pkg/logger"
	"github.com/powerpointbreak/storebot/pkg/messenger"
)

// handleCallback decodes and routes an inline-button press. Malformed
// payloads are dropped; admin actions from anyone but the operator are
// silently refused.
func (b *Bot) handleCallback(u messenger.Update) {
	act, err := action.Decode(u.Callback)
	if err != nil {
		logger.Warn("callback rejected", "payload", u.Callback, "from", u.From)
		return
	}

	// User browse flow.
	switch act.Kind {
	case action.BrowseCategories:
		b.showCategories(u.From)
		return
	case action.SelectCategory:
		b.showProducts(u.From, act.Arg)
		return
	case action.SelectProduct:
		b.showProductDetails(u.From, act.Arg)
		return
	case action.BuyNow:
		b.buyNow(u.From, act.Arg)
		return
	}

	if !b.isOperator(u.From) {
		return
	}

	switch act.Kind {
	case action.AdminPanel:
		b.dialogs.Cancel(u.From)
		b.editAdminPanel(u.Origin)
	case action.CategoryManager:
		b.edit(u.Origin, messenger.Content{
			Text: "CATEGORY MANAGER",
			Buttons: [][]messenger.Button{
				{{Label: "➕ Add Category", Payload: action.Action{Kind: action.StartAddCategory}.Encode()}},
				backButton(),
			},
		})
	case action.StockManager:
		b.showStockManager(u.Origin)
	case action.PendingOrders:
		b.showPendingQueue(u.Origin, "")
	case action.ViewOrder:
		b.showPendingQueue(u.Origin, act.Arg)
	case action.ApproveOrder:
		b.decide(u, act.Arg, true)
	case action.RejectOrder:
		b.decide(u, act.Arg, false)
	case action.Stats:
		b.edit(u.Origin, backWrapped(b.ledger.CollectStats().String()))
	case action.ActivityLogs:
		logs := b.ledger.ActivityLog(20)
		text := "ACTIVITY LOGS\n\n" + strings.Join(logs, "\n")
		if len(logs) == 0 {
			text = "ACTIVITY LOGS\n\nNo recent activity."
		}
		b.edit(u.Origin, backWrapped(text))
	case action.NotifyPending:
		b.notifyPending(u.Origin)
	case action.StartAddCategory:
		b.dialogs.Start(u.From, dialog.AwaitCategoryName{})
		b.edit(u.Origin, messenger.Content{Text: "Send category name:"})
	case action.StartAddStock:
		b.startAddStock(u.Origin, u.From)
	case action.SelectStockTarget:
		b.selectStockTarget(u, act.Arg)
	case action.StartSearch:
		b.dialogs.Start(u.From, dialog.AwaitSearchTerm{})
		b.edit(u.Origin, messenger.Content{
			Text: "ADMIN SEARCH\n\nEnter an Order ID (e.g. order_101), TXN ID, or User ID.",
		})
	case action.CancelDialog:
		b.dialogs.Cancel(u.From)
		b.edit(u.Origin, withPanel("Action cancelled."))
	}
}

func (b *Bot) sendAdminPanel(to int64) {
	b.send(to, messenger.Content{Text: "ADMIN PANEL\n\nPlease choose an option:", Buttons: panelButtons()})
}

func (b *Bot) editAdminPanel(ref messenger.MessageRef) {
	b.edit(ref, messenger.Content{Text: "ADMIN PANEL\n\nPlease choose an option:", Buttons: panelButtons()})
}

func panelButtons() [][]messenger.Button {
	row := func(btns ...messenger.Button) []messenger.Button { return btns }
	btn := func(label string, k action.Kind) messenger.Button {
		return messenger.Button{Label: label, Payload: action.Action{Kind: k}.Encode()}
	}
	return [][]messenger.Button{
		row(btn("📁 Category Manager", action.CategoryManager)),
		row(btn("📦 Stock Manager", action.StockManager)),
		row(btn("🧾 Pending Orders", action.PendingOrders), btn("🔍 Search", action.StartSearch)),
		row(btn("📊 Stats", action.Stats), btn("📜 Activity Logs", action.ActivityLogs)),
		row(btn("🔔 Notify Pending Users", action.NotifyPending)),
	}
}

func backButton() []messenger.Button {
	return []messenger.Button{{
		Label:   "⬅ Back to Admin Panel",
		Payload: action.Action{Kind: action.AdminPanel}.Encode(),
	}}
}

func backWrapped(text string) messenger.Content {
	return messenger.Content{Text: text, Buttons: [][]messenger.Button{backButton()}}
}

func withPanel(text string) messenger.Content {
	return messenger.Content{Text: text, Buttons: panelButtons()}
}

// ─── Stock management ───────────────────────────────────────────────────────

func (b *Bot) showStockManager(ref messenger.MessageRef) {
	available, used := b.stock.Totals()
	b.edit(ref, messenger.Content{
		Text: fmt.Sprintf("STOCK MANAGER\n\nAvailable: %d\nUsed: %d\nTotal: %d",
			available, used, available+used),
		Buttons: [][]messenger.Button{
			{{Label: "➕ Add Stock", Payload: action.Action{Kind: action.StartAddStock}.Encode()}},
			backButton(),
		},
	})
}

func (b *Bot) startAddStock(ref messenger.MessageRef, operator int64) {
	prods := b.ledger.Products()
	if len(prods) == 0 {
		b.edit(ref, withPanel("No products defined. Add a product first."))
		return
	}

	b.dialogs.Start(operator, dialog.AwaitStockProduct{})

	var rows [][]messenger.Button
	for _, p := range prods {
		rows = append(rows, []messenger.Button{{
			Label:   p.Name,
			Payload: action.Action{Kind: action.SelectStockTarget, Arg: p.ID}.Encode(),
		}})
	}
	rows = append(rows, []messenger.Button{{
		Label:   "❌ Cancel",
		Payload: action.Action{Kind: action.CancelDialog}.Encode(),
	}})
	b.edit(ref, messenger.Content{Text: "Select Product to add stock for:", Buttons: rows})
}

func (b *Bot) selectStockTarget(u messenger.Update, productID string) {
	_, active, err := b.dialogs.Step(u.From, dialog.Input{ProductID: productID})
	if !active || err != nil {
		b.edit(u.Origin, withPanel("Stock addition is not in progress. Start again."))
		return
	}

	name := productID
	if p, perr := b.ledger.Product(productID); perr == nil {
		name = p.Name
	}
	b.edit(u.Origin, messenger.Content{
		Text: "Adding stock for " + name + "\n\nSend credentials, one per line:\nemail1|pass1\nemail2|pass2",
	})
}

// ─── Pending queue with relative navigation ─────────────────────────────────

// showPendingQueue renders one pending order plus prev/next buttons. The
// queue is recomputed on every call, so navigation follows the live queue —
// an order resolving between presses shifts the ones behind it.
func (b *Bot) showPendingQueue(ref messenger.MessageRef, orderID string) {
	queue := b.ledger.PendingQueue()
	if len(queue) == 0 {
		b.edit(ref, backWrapped("Pending Orders\n\nNo orders are currently pending approval."))
		return
	}

	idx := 0
	if orderID != "" {
		idx = -1
		for i, v := range queue {
			if v.ID == orderID {
				idx = i
				break
			}
		}
		if idx < 0 {
			// The order resolved since the button was rendered.
			b.edit(ref, backWrapped(fmt.Sprintf("Order %s is no longer pending.", orderID)))
			return
		}
	}

	v := queue[idx]
	username := "N/A"
	if p := b.ledger.ProfileFor(v.Order.UserID); p.Username != "" {
		username = p.Username
	}
	productName := "Unknown Product"
	if p, err := b.ledger.Product(v.Order.ProductID); err == nil {
		productName = p.Name
	}

	text := fmt.Sprintf(
		"ORDER %s (%d of %d pending)\n\nUser: @%s\nProduct: %s\nPrice: %d\n\n"+
			"TXN: %s\nSender: %s\nAmount: %d\n\nStatus: %s",
		v.ID, idx+1, len(queue), username, productName, v.Order.Price,
		v.Order.TxnID, v.Order.SenderNumber, v.Order.SubmittedAmount,
		strings.ToUpper(v.Order.Status))

	rows := [][]messenger.Button{{
		{Label: "✔ Approve", Payload: action.Action{Kind: action.ApproveOrder, Arg: v.ID}.Encode()},
		{Label: "❌ Reject", Payload: action.Action{Kind: action.RejectOrder, Arg: v.ID}.Encode()},
	}}

	var nav []messenger.Button
	if idx > 0 {
		nav = append(nav, messenger.Button{
			Label:   "« Prev",
			Payload: action.Action{Kind: action.ViewOrder, Arg: queue[idx-1].ID}.Encode(),
		})
	}
	if idx < len(queue)-1 {
		nav = append(nav, messenger.Button{
			Label:   "Next »",
			Payload: action.Action{Kind: action.ViewOrder, Arg: queue[idx+1].ID}.Encode(),
		})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, backButton())

	b.edit(ref, messenger.Content{Text: text, Buttons: rows})
}

func (b *Bot) decide(u messenger.Update, orderID string, approve bool) {
	dec, err := b.ledger.Decide(orderID, approve)
	switch {
	case errors.Is(err, services.ErrAlreadyDecided), errors.Is(err, services.ErrOrderNotFound):
		b.edit(u.Origin, backWrapped(fmt.Sprintf("Order %s is no longer pending or doesn't exist.", orderID)))
		return
	case errors.Is(err, services.ErrStockExhausted):
		b.edit(u.Origin, backWrapped(
			fmt.Sprintf("ERROR: no stock available for order %s. Add stock first; the order stays pending.", orderID)))
		return
	case err != nil:
		logger.Error("decide failed", "order_id", orderID, "error", err)
		return
	}

	b.router.DecisionOutcome(dec)
	if approve {
		b.edit(u.Origin, backWrapped(
			fmt.Sprintf("Order approved & delivered.\nDelivery: %s", dec.Credential)))
	} else {
		b.edit(u.Origin, backWrapped("Order rejected."))
	}
}

func (b *Bot) notifyPending(ref messenger.MessageRef) {
	reminders := b.ledger.PendingReminders()
	if len(reminders) == 0 {
		b.edit(ref, backWrapped("No users with pending orders to notify."))
		return
	}
	sent := b.router.RemindPending(reminders)
	b.edit(ref, backWrapped(fmt.Sprintf("Notification sent. Reminded %d users with pending orders.", sent)))
}

// ─── Dialog effects ─────────────────────────────────────────────────────────

// applyEffect commits what a finished dialog flow asked for.
func (b *Bot) applyEffect(operator int64, eff dialog.Effect) {
	switch e := eff.(type) {
	case dialog.Prompt:
		switch e.Next.(type) {
		case dialog.AwaitCategoryBanner:
			b.reply(operator, "Send banner URL (send \"-\" for none):")
		default:
			b.reply(operator, "Continue:")
		}

	case dialog.Cancelled:
		b.send(operator, withPanel("Action cancelled."))

	case dialog.CreateCategory:
		if _, err := b.ledger.CreateCategory(e.Name, e.Banner); err != nil {
			logger.Error("category create failed", "error", err)
			b.reply(operator, "Could not save the category.")
			return
		}
		b.send(operator, withPanel(fmt.Sprintf("Category %s added successfully!", e.Name)))

	case dialog.AddStock:
		report, err := b.stock.BulkAdd(e.ProductID, e.Lines)
		if err != nil {
			logger.Error("stock add failed", "product_id", e.ProductID, "error", err)
			b.send(operator, withPanel("Could not add stock: product missing."))
			return
		}
		text := fmt.Sprintf("Added %d stock items.", report.Accepted)
		if len(report.Rejected) > 0 {
			text += fmt.Sprintf("\nRejected lines (missing \"|\"): %s",
				joinInts(report.Rejected))
		}
		b.send(operator, withPanel(text))

	case dialog.Search:
		b.renderSearch(operator, e.Term)
	}
}

func (b *Bot) renderSearch(operator int64, term string) {
	results := b.ledger.Search(term)
	if len(results) == 0 {
		b.send(operator, withPanel("No orders found matching: "+term))
		return
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Search Results for: %s\n\n", term)
	for _, r := range results {
		fmt.Fprintf(&text,
			"--- Match by %s ---\nID: %s\nUser: @%s (ID: %d)\nProduct: %s\nStatus: %s\nPrice: %d\nTXN: %s\n\n",
			r.MatchedBy, r.ID, r.Username, r.Order.UserID, r.Product,
			strings.ToUpper(r.Order.Status), r.Order.Price, orNA(r.Order.TxnID))
	}
	b.send(operator, withPanel(text.String()))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
