package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powerpointbreak/storebot/pkg/messenger"
)

const testOperator int64 = 999

func newTestRouter() (*Router, *messenger.Fake) {
	fake := messenger.NewFake()
	return NewRouter(fake, testOperator, "@store_support"), fake
}

func TestPendingOrderAlert(t *testing.T) {
	router, fake := newTestRouter()

	router.PendingOrderAlert(Submission{
		OrderID: "order_100", UserID: 42, Username: "buyer",
		ProductName: "ChatGPT Plus", Price: 250,
		TxnID: "TXN1", Sender: "017000000", Amount: 250,
	})

	msgs := fake.SentTo(testOperator)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content.Text, "order_100")
	assert.Contains(t, msgs[0].Content.Text, "TXN1")

	require.Len(t, msgs[0].Content.Buttons, 1)
	row := msgs[0].Content.Buttons[0]
	require.Len(t, row, 2)
	assert.Equal(t, "APPROVE:order_100", row[0].Payload)
	assert.Equal(t, "REJECT:order_100", row[1].Payload)
}

func TestDecisionOutcomeApproved(t *testing.T) {
	router, fake := newTestRouter()

	router.DecisionOutcome(Decision{
		OrderID: "order_100", Approved: true, UserID: 42,
		ProductName: "ChatGPT Plus", Price: 250,
		Credential: "user@mail.com|pass123",
	})

	msgs := fake.SentTo(42)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content.Text, "Username: user@mail.com")
	assert.Contains(t, msgs[0].Content.Text, "Password: pass123")
	assert.Contains(t, msgs[0].Content.Text, "@store_support")
}

func TestDecisionOutcomeApprovedCredentialWithExtraSeparator(t *testing.T) {
	router, fake := newTestRouter()

	// Only the first "|" splits; the rest stays in the secret.
	router.DecisionOutcome(Decision{
		OrderID: "order_100", Approved: true, UserID: 42,
		Credential: "user@mail.com|pass|with|pipes",
	})

	msgs := fake.SentTo(42)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content.Text, "Password: pass|with|pipes")
}

func TestDecisionOutcomeRejected(t *testing.T) {
	router, fake := newTestRouter()

	router.DecisionOutcome(Decision{OrderID: "order_100", Approved: false, UserID: 42})

	msgs := fake.SentTo(42)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content.Text, "rejected")
	assert.NotContains(t, msgs[0].Content.Text, "Password")
}

func TestLowStockAlertSingleMessage(t *testing.T) {
	router, fake := newTestRouter()

	router.LowStockAlert(5, []LowStockItem{
		{ProductID: "prod_1", Name: "ChatGPT Plus", Available: 2},
		{ProductID: "prod_2", Name: "Netflix Premium", Available: 0},
	})

	msgs := fake.SentTo(testOperator)
	require.Len(t, msgs, 1, "one alert regardless of how many products are low")
	assert.Contains(t, msgs[0].Content.Text, "ChatGPT Plus: 2 items left")
	assert.Contains(t, msgs[0].Content.Text, "Netflix Premium: 0 items left")
}

func TestLowStockAlertEmptyNoOp(t *testing.T) {
	router, fake := newTestRouter()
	router.LowStockAlert(5, nil)
	assert.Empty(t, fake.Sent)
}

func TestRemindPendingToleratesBlockedUsers(t *testing.T) {
	router, fake := newTestRouter()
	fake.FailFor[7] = errors.New("blocked by user")

	sent := router.RemindPending([]Reminder{
		{UserID: 42, OrderID: "order_100"},
		{UserID: 7, OrderID: "order_101"},
		{UserID: 9, OrderID: "order_102"},
	})

	assert.Equal(t, 2, sent)
	assert.Len(t, fake.SentTo(42), 1)
	assert.Len(t, fake.SentTo(9), 1, "a blocked recipient must not abort the batch")
	assert.Empty(t, fake.SentTo(7))
}

func TestSweeperCheckLowStock(t *testing.T) {
	store := newTestStore(t)
	router, fake := newTestRouter()
	sweeper := NewSweeper(NewStockPool(store), router, store, 5)

	sweeper.CheckLowStock()
	msgs := fake.SentTo(testOperator)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content.Text, "ChatGPT Plus: 2 items left")

	// A healthy pool sweeps silently.
	pool := NewStockPool(store)
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "fresh@mail.com|pw"
	}
	_, err := pool.BulkAdd("prod_1", lines)
	require.NoError(t, err)

	sweeper.CheckLowStock()
	assert.Len(t, fake.SentTo(testOperator), 1, "no second alert")
}
