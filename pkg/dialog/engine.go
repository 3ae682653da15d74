package dialog

import (
	"fmt"
	"sync"
	"time"

	"github.com/powerpointbreak/storebot/pkg/cache"
)

// sessionTTL bounds how long an abandoned flow survives in the Redis mirror.
// The in-process session has no timeout; the TTL is hygiene for the external
// store only.
const sessionTTL = 24 * time.Hour

// Engine tracks at most one active flow per user. All methods are safe for
// concurrent use.
type Engine struct {
	mu       sync.Mutex
	sessions map[int64]State
}

// NewEngine returns an empty engine.
func NewEngine() *Engine {
	return &Engine{sessions: map[int64]State{}}
}

// Start opens a flow for user in state s, replacing any previous flow.
func (e *Engine) Start(user int64, s State) {
	e.mu.Lock()
	e.sessions[user] = s
	e.mu.Unlock()
	mirror(user, s)
}

// Active returns the user's current flow state. Falls back to the Redis
// mirror so an in-flight flow survives a restart.
func (e *Engine) Active(user int64) (State, bool) {
	e.mu.Lock()
	s, ok := e.sessions[user]
	e.mu.Unlock()
	if ok {
		return s, true
	}

	if s, ok := recall(user); ok {
		e.mu.Lock()
		e.sessions[user] = s
		e.mu.Unlock()
		return s, true
	}
	return nil, false
}

// Step advances the user's flow with in. A Prompt effect keeps the flow open
// in its next state; every other effect closes it. With no flow open, Step
// returns (nil, false, nil) and the caller routes the input elsewhere.
func (e *Engine) Step(user int64, in Input) (Effect, bool, error) {
	s, ok := e.Active(user)
	if !ok {
		return nil, false, nil
	}

	eff, err := Advance(s, in)
	if err != nil {
		return nil, true, err
	}

	if p, cont := eff.(Prompt); cont {
		e.mu.Lock()
		e.sessions[user] = p.Next
		e.mu.Unlock()
		mirror(user, p.Next)
	} else {
		e.drop(user)
	}
	return eff, true, nil
}

// Cancel discards the user's flow, if any.
func (e *Engine) Cancel(user int64) {
	e.drop(user)
}

func (e *Engine) drop(user int64) {
	e.mu.Lock()
	delete(e.sessions, user)
	e.mu.Unlock()
	_ = cache.Del(sessionKey(user))
}

// ─── Redis mirror ───────────────────────────────────────────────────────────

// mirrored is the serialized session shape. Kind discriminates the variant.
type mirrored struct {
	Kind      string `json:"kind"`
	Name      string `json:"name,omitempty"`
	ProductID string `json:"product_id,omitempty"`
}

func sessionKey(user int64) string { return fmt.Sprintf("dialog:%d", user) }

func mirror(user int64, s State) {
	var m mirrored
	switch st := s.(type) {
	case AwaitCategoryName:
		m.Kind = "cat_name"
	case AwaitCategoryBanner:
		m.Kind, m.Name = "cat_banner", st.Name
	case AwaitStockProduct:
		m.Kind = "stock_product"
	case AwaitStockLines:
		m.Kind, m.ProductID = "stock_lines", st.ProductID
	case AwaitSearchTerm:
		m.Kind = "search_term"
	default:
		return
	}
	_ = cache.Set(sessionKey(user), m, sessionTTL)
}

func recall(user int64) (State, bool) {
	var m mirrored
	if !cache.Get(sessionKey(user), &m) {
		return nil, false
	}
	switch m.Kind {
	case "cat_name":
		return AwaitCategoryName{}, true
	case "cat_banner":
		return AwaitCategoryBanner{Name: m.Name}, true
	case "stock_product":
		return AwaitStockProduct{}, true
	case "stock_lines":
		return AwaitStockLines{ProductID: m.ProductID}, true
	case "search_term":
		return AwaitSearchTerm{}, true
	}
	return nil, false
}
