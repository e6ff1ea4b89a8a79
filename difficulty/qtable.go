/*
Package difficulty adapts maze difficulty across playthroughs with tabular Q-learning.

A State pairs the current difficulty index with a skill estimate. For every state the agent keeps
one value per Action (decrease, hold, increase) and picks actions epsilon-greedily. After each
completed maze the caller turns the player's Performance into a Reward and feeds it back through
UpdateQValue; the Controller applies the chosen action to the level, clamped to the level range.
*/
package difficulty

import "strconv"

// Action is the change applied to the difficulty index.
type Action int

const (
	Decrease Action = -1
	Hold     Action = 0
	Increase Action = 1
)

// Actions lists every action in exploration order.
var Actions = [...]Action{Decrease, Hold, Increase}

// greedyOrder is the order Best walks the actions in; the first one wins a tie, so an unseen
// state holds the difficulty.
var greedyOrder = [...]Action{Hold, Increase, Decrease}

func (a Action) index() int {
	return int(a) + 1
}

func (a Action) String() string {
	switch a {
	case Decrease:
		return "decrease"
	case Hold:
		return "hold"
	case Increase:
		return "increase"
	default:
		return "action(" + strconv.Itoa(int(a)) + ")"
	}
}

// State is the Q-table key.
type State struct {
	Difficulty int `json:"difficulty" bson:"difficulty"`
	Skill      int `json:"skill" bson:"skill"`
}

// ActionValues holds the estimate of each action, indexed Decrease, Hold, Increase.
type ActionValues [len(Actions)]float64

// Get returns the stored value of a.
func (v ActionValues) Get(a Action) float64 {
	return v[a.index()]
}

// Max returns the largest stored value.
func (v ActionValues) Max() float64 {
	best := v[0]
	for _, q := range v[1:] {
		best = max(best, q)
	}
	return best
}

// Best returns the action with the largest value. Ties go to Hold, then Increase.
func (v ActionValues) Best() Action {
	best := greedyOrder[0]
	for _, a := range greedyOrder[1:] {
		if v.Get(a) > v.Get(best) {
			best = a
		}
	}
	return best
}

// QTable maps states to their action values. Entries appear lazily at zero and only go away on Reset.
type QTable struct {
	values map[State]*ActionValues
}

// NewQTable creates an empty table.
func NewQTable() *QTable {
	return &QTable{values: make(map[State]*ActionValues)}
}

// ensure returns the values of s, creating the neutral zero entry on first use.
func (t *QTable) ensure(s State) *ActionValues {
	v, ok := t.values[s]
	if !ok {
		v = &ActionValues{}
		t.values[s] = v
	}
	return v
}

// Values returns a copy of the values stored for s and whether s has been seen.
func (t *QTable) Values(s State) (ActionValues, bool) {
	v, ok := t.values[s]
	if !ok {
		return ActionValues{}, false
	}
	return *v, true
}

// Value returns Q(s, a), or zero for an unseen state.
func (t *QTable) Value(s State, a Action) float64 {
	v, _ := t.Values(s)
	return v.Get(a)
}

// Len returns the number of known states.
func (t *QTable) Len() int {
	return len(t.values)
}

// Snapshot returns a copy of the whole table.
func (t *QTable) Snapshot() map[State]ActionValues {
	out := make(map[State]ActionValues, len(t.values))
	for s, v := range t.values {
		out[s] = *v
	}
	return out
}

// Reset forgets every state.
func (t *QTable) Reset() {
	clear(t.values)
}
