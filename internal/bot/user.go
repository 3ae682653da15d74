package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/powerpointbreak/storebot/app/services"
	"github.com/powerpointbreak/storebot/pkg/action"
	"github.com/powerpointbreak/storebot/pkg/logger"
	"github.com/powerpointbreak/storebot/pkg/messenger"
)

// User-side browse and buy flow.

func (b *Bot) showCategories(user int64) {
	cats := b.ledger.Categories()
	if len(cats) == 0 {
		b.reply(user, "No categories available right now. Please check back later.")
		return
	}

	var rows [][]messenger.Button
	for _, c := range cats {
		rows = append(rows, []messenger.Button{{
			Label:   c.Name,
			Payload: action.Action{Kind: action.SelectCategory, Arg: c.ID}.Encode(),
		}})
	}
	b.send(user, messenger.Content{Text: "Select Category", Buttons: rows})
}

func (b *Bot) showProducts(user int64, catID string) {
	prods := b.ledger.ProductsIn(catID)

	var text strings.Builder
	text.WriteString("Available Products:\n\n")
	var rows [][]messenger.Button
	for _, p := range prods {
		fmt.Fprintf(&text, "• %s – %s – %d\n", p.Name, p.Duration, p.Price)
		rows = append(rows, []messenger.Button{{
			Label:   fmt.Sprintf("%s (%d)", p.Name, p.Price),
			Payload: action.Action{Kind: action.SelectProduct, Arg: p.ID}.Encode(),
		}})
	}
	if len(prods) == 0 {
		text.WriteString("No products available in this category.")
	}
	rows = append(rows, []messenger.Button{{
		Label:   "⬅ Back to Categories",
		Payload: action.Action{Kind: action.BrowseCategories}.Encode(),
	}})
	b.send(user, messenger.Content{Text: text.String(), Buttons: rows})
}

func (b *Bot) showProductDetails(user int64, productID string) {
	p, err := b.ledger.Product(productID)
	if err != nil {
		b.reply(user, "Product not found.")
		return
	}

	summary := fmt.Sprintf(
		"ORDER SUMMARY\n\nProduct: %s\nDuration: %s\nCountry: %s\nPrice: %d\n\nRules:\n%s",
		p.Name, p.Duration, p.Country, p.Price, p.Rules)

	b.send(user, messenger.Content{
		Text: summary,
		Buttons: [][]messenger.Button{
			{{Label: "🛒 Buy Now", Payload: action.Action{Kind: action.BuyNow, Arg: p.ID}.Encode()}},
			{{Label: "⬅ Back", Payload: action.Action{Kind: action.SelectCategory, Arg: p.CatID}.Encode()}},
		},
	})
}

func (b *Bot) buyNow(user int64, productID string) {
	orderID, order, err := b.ledger.CreateOrder(user, productID)
	if errors.Is(err, services.ErrProductNotFound) {
		b.reply(user, "Product selection failed. Please start again from the menu.")
		return
	}
	if err != nil {
		logger.Error("order creation failed", "user_id", user, "error", err)
		return
	}
	b.setAwaiting(user, orderID)

	p, _ := b.ledger.Product(productID)
	b.reply(user, fmt.Sprintf(
		"ORDER ID: %s\n\nProduct: %s\nPrice: %d\n\n"+
			"Submit payment as:\nTXNID|SENDER_NUMBER|AMOUNT\n\n"+
			"Send money to:\n%s\n\n"+
			"Reply with the payment format above after sending money.",
		orderID, p.Name, order.Price, b.cfg.PaymentNumber))
}

func (b *Bot) showUserOrders(user int64) {
	orders := b.ledger.OrdersForUser(user)
	if len(orders) == 0 {
		b.reply(user, "YOUR ORDERS\n\nYou have no orders yet.")
		return
	}

	var text strings.Builder
	text.WriteString("YOUR ORDERS\n\n")
	for _, v := range orders {
		fmt.Fprintf(&text, "%s — %s\n", v.ID, strings.ToUpper(v.Order.Status))
	}
	b.reply(user, text.String())
}

func (b *Bot) showProfile(user int64) {
	p := b.ledger.ProfileFor(user)
	b.reply(user, fmt.Sprintf(
		"YOUR PROFILE\n\nUser ID: %d\nUsername: @%s\nName: %s\n\n"+
			"Total Orders: %d\nCompleted: %d\nPending: %d\nRejected: %d\n\n"+
			"Total Spent: %d\nFirst Order: %s\nCustomer Level: %s",
		p.UserID, p.Username, p.Name,
		p.Total, p.Completed, p.Pending, p.Rejected,
		p.TotalSpent, p.FirstOrder, p.Level))
}

func (b *Bot) send(to int64, c messenger.Content) {
	if err := b.m.Send(to, c); err != nil {
		logger.Warn("send failed", "recipient", to, "error", err)
	}
}
