// Package action defines the inline-button payload format used for all bot
// navigation.
//
// A payload is either a bare verb ("ADMIN_PANEL") or a verb plus one argument
// separated by a single colon ("APPROVE:order_101"). The colon keeps ids that
// themselves contain underscores unambiguous. Decode is the only entry point
// for inbound payloads and rejects anything outside the closed variant set,
// so a malformed or forged payload can never be routed.
package action

import (
	"errors"
	"strings"
)

// Kind enumerates every routable action.
type Kind string

const (
	// User browse flow.
	BrowseCategories Kind = "CATS"
	SelectCategory   Kind = "CAT"
	SelectProduct    Kind = "PROD"
	BuyNow           Kind = "BUY"

	// Operator panel navigation.
	AdminPanel      Kind = "ADMIN_PANEL"
	CategoryManager Kind = "CAT_MGR"
	StockManager    Kind = "STOCK_MGR"
	PendingOrders   Kind = "PENDING"
	Stats           Kind = "STATS"
	ActivityLogs    Kind = "LOGS"
	NotifyPending   Kind = "NOTIFY"

	// Operator order decisions and queue navigation.
	ApproveOrder Kind = "APPROVE"
	RejectOrder  Kind = "REJECT"
	ViewOrder    Kind = "VIEW"

	// Dialog flow triggers.
	StartAddCategory  Kind = "ADD_CAT"
	StartAddStock     Kind = "ADD_STOCK"
	SelectStockTarget Kind = "STOCK_PROD"
	StartSearch       Kind = "SEARCH"
	CancelDialog      Kind = "CANCEL"
)

// withArg lists the kinds that carry an argument. Everything else must be
// bare.
var withArg = map[Kind]bool{
	SelectCategory:    true,
	SelectProduct:     true,
	BuyNow:            true,
	ApproveOrder:      true,
	RejectOrder:       true,
	ViewOrder:         true,
	SelectStockTarget: true,
}

var bare = map[Kind]bool{
	BrowseCategories: true,
	AdminPanel:       true,
	CategoryManager:  true,
	StockManager:     true,
	PendingOrders:    true,
	Stats:            true,
	ActivityLogs:     true,
	NotifyPending:    true,
	StartAddCategory: true,
	StartAddStock:    true,
	StartSearch:      true,
	CancelDialog:     true,
}

// ErrMalformed is returned for payloads outside the documented format.
var ErrMalformed = errors.New("action: malformed payload")

// Action is one decoded inline-button press.
type Action struct {
	Kind Kind
	Arg  string // order id, product id or category id, depending on Kind
}

// Encode renders the action to its wire form.
func (a Action) Encode() string {
	if a.Arg == "" {
		return string(a.Kind)
	}
	return string(a.Kind) + ":" + a.Arg
}

// Decode parses a payload defensively. The argument may not be empty or
// contain a colon, and the verb must belong to the closed set with the right
// arity.
func Decode(payload string) (Action, error) {
	verb, arg, found := strings.Cut(payload, ":")
	k := Kind(verb)

	if found {
		if arg == "" || strings.Contains(arg, ":") || !withArg[k] {
			return Action{}, ErrMalformed
		}
		return Action{Kind: k, Arg: arg}, nil
	}

	if !bare[k] {
		return Action{}, ErrMalformed
	}
	return Action{Kind: k}, nil
}
