package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCategoryFlow(t *testing.T) {
	eff, err := Advance(AwaitCategoryName{}, Input{Text: "  Streaming  "})
	require.NoError(t, err)
	next := eff.(Prompt).Next
	assert.Equal(t, AwaitCategoryBanner{Name: "Streaming"}, next)

	eff, err = Advance(next, Input{Text: "https://cdn.example/banner.png"})
	require.NoError(t, err)
	assert.Equal(t, CreateCategory{Name: "Streaming", Banner: "https://cdn.example/banner.png"}, eff)
}

func TestAddCategorySkippedBanner(t *testing.T) {
	for _, text := range []string{"", "-", "  "} {
		eff, err := Advance(AwaitCategoryBanner{Name: "AI"}, Input{Text: text})
		require.NoError(t, err)
		assert.Equal(t, CreateCategory{Name: "AI", Banner: "N/A"}, eff, "banner input %q", text)
	}
}

func TestAddStockFlow(t *testing.T) {
	eff, err := Advance(AwaitStockProduct{}, Input{ProductID: "prod_1"})
	require.NoError(t, err)
	next := eff.(Prompt).Next

	eff, err = Advance(next, Input{Text: "a@x|pw1\nb@x|pw2"})
	require.NoError(t, err)
	assert.Equal(t, AddStock{ProductID: "prod_1", Lines: []string{"a@x|pw1", "b@x|pw2"}}, eff)
}

func TestSearchFlow(t *testing.T) {
	eff, err := Advance(AwaitSearchTerm{}, Input{Text: " TXN42 "})
	require.NoError(t, err)
	assert.Equal(t, Search{Term: "TXN42"}, eff)
}

func TestCancelFromAnyState(t *testing.T) {
	states := []State{
		AwaitCategoryName{},
		AwaitCategoryBanner{Name: "AI"},
		AwaitStockProduct{},
		AwaitStockLines{ProductID: "prod_1"},
		AwaitSearchTerm{},
	}
	for _, s := range states {
		eff, err := Advance(s, Input{Cancel: true})
		require.NoError(t, err)
		assert.Equal(t, Cancelled{}, eff)
	}
}

func TestUnexpectedInputLeavesStateUsable(t *testing.T) {
	_, err := Advance(AwaitCategoryName{}, Input{Text: "   "})
	assert.ErrorIs(t, err, ErrUnexpectedInput)

	// Free text while a product pick is awaited.
	_, err = Advance(AwaitStockProduct{}, Input{Text: "prod_1"})
	assert.ErrorIs(t, err, ErrUnexpectedInput)
}

func TestEngineStepKeepsSessionsPerUser(t *testing.T) {
	e := NewEngine()
	e.Start(1, AwaitCategoryName{})
	e.Start(2, AwaitSearchTerm{})

	eff, active, err := e.Step(1, Input{Text: "Gaming"})
	require.NoError(t, err)
	assert.True(t, active)
	assert.IsType(t, Prompt{}, eff)

	// User 2's flow is untouched by user 1's progress.
	eff, active, err = e.Step(2, Input{Text: "order_100"})
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, Search{Term: "order_100"}, eff)

	// Terminal effect closed user 2's session.
	_, active, err = e.Step(2, Input{Text: "again"})
	require.NoError(t, err)
	assert.False(t, active)
}

func TestEngineStartReplacesOpenFlow(t *testing.T) {
	e := NewEngine()
	e.Start(1, AwaitCategoryName{})
	e.Start(1, AwaitSearchTerm{})

	eff, active, err := e.Step(1, Input{Text: "anything"})
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, Search{Term: "anything"}, eff)
}

func TestEngineErrorKeepsFlowOpen(t *testing.T) {
	e := NewEngine()
	e.Start(1, AwaitCategoryName{})

	_, active, err := e.Step(1, Input{Text: ""})
	assert.True(t, active)
	assert.ErrorIs(t, err, ErrUnexpectedInput)

	s, ok := e.Active(1)
	require.True(t, ok)
	assert.Equal(t, AwaitCategoryName{}, s)
}

func TestEngineCancelDropsFlow(t *testing.T) {
	e := NewEngine()
	e.Start(1, AwaitStockLines{ProductID: "prod_1"})
	e.Cancel(1)

	_, ok := e.Active(1)
	assert.False(t, ok)
}
