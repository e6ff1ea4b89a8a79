package difficulty

import "github.com/beka-birhanu/vinom-maze/maze"

// RandomSource yields uniform floats in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// Config holds the Q-learning hyperparameters.
type Config struct {
	LearningRate    float64 // alpha
	DiscountFactor  float64 // gamma
	ExplorationRate float64 // epsilon
}

// SkillFunc estimates the player's skill level for the state key.
type SkillFunc func() int

// ConstantSkill returns a SkillFunc that always reports level.
func ConstantSkill(level int) SkillFunc {
	return func() int { return level }
}

// Agent chooses difficulty actions epsilon-greedily over its QTable and learns from rewards.
// An Agent is not safe for concurrent use.
type Agent struct {
	table *QTable
	cfg   Config
	rng   RandomSource
	skill SkillFunc
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithSkill replaces the default constant skill estimate.
func WithSkill(f SkillFunc) AgentOption {
	return func(a *Agent) {
		if f != nil {
			a.skill = f
		}
	}
}

// NewAgent creates an agent learning into table. A nil table starts empty.
func NewAgent(table *QTable, cfg Config, rng RandomSource, options ...AgentOption) *Agent {
	if table == nil {
		table = NewQTable()
	}

	a := &Agent{
		table: table,
		cfg:   cfg,
		rng:   rng,
		skill: ConstantSkill(0),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// StateFor builds the state key for a difficulty index using the agent's skill estimate.
func (a *Agent) StateFor(difficulty int) State {
	return State{Difficulty: difficulty, Skill: a.skill()}
}

// ChooseAction picks an action for s: a uniformly random one with probability ExplorationRate
// unless forceBest is set, otherwise the highest valued one.
func (a *Agent) ChooseAction(s State, forceBest bool) Action {
	values := a.table.ensure(s)

	if !forceBest && a.rng.Float64() < a.cfg.ExplorationRate {
		return Actions[maze.Pick(a.rng, len(Actions))]
	}
	return values.Best()
}

// UpdateQValue applies the one-step Q-learning update
// Q(s,a) += alpha * (reward + gamma * max Q(next,.) - Q(s,a)).
func (a *Agent) UpdateQValue(s State, action Action, reward float64, next State) {
	values := a.table.ensure(s)
	maxNext := a.table.ensure(next).Max()

	old := values.Get(action)
	values[action.index()] = old + a.cfg.LearningRate*(reward+a.cfg.DiscountFactor*maxNext-old)
}

// Reset clears everything the agent has learned.
func (a *Agent) Reset() {
	a.table.Reset()
}

// Table returns the agent's Q-table.
func (a *Agent) Table() *QTable {
	return a.table
}
