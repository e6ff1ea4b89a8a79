package difficulty

// Mode tells the controller who played the maze.
type Mode string

const (
	Interactive Mode = "interactive" // a player drove the traversal; the learned policy decides
	Autonomous  Mode = "autonomous"  // the solver drove it; difficulty always escalates
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == Interactive || m == Autonomous
}

// Change describes how the difficulty moved between two mazes.
type Change string

const (
	Increased Change = "increased"
	Decreased Change = "decreased"
	Held      Change = "held"
)

// Transition is the outcome of one completed maze.
type Transition struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Action Action  `json:"action"`
	Change Change  `json:"change"`
	Reward float64 `json:"reward"`
}

// Controller turns rewards into difficulty transitions over levels [0, levels-1].
type Controller struct {
	agent  *Agent
	levels int
}

// NewController creates a controller for levelCount difficulty levels driven by agent.
func NewController(agent *Agent, levelCount int) *Controller {
	return &Controller{
		agent:  agent,
		levels: max(levelCount, 1),
	}
}

// Clamp forces a difficulty index into the valid level range.
func (c *Controller) Clamp(level int) int {
	return min(max(level, 0), c.levels-1)
}

// Next picks the difficulty following a completed maze played at current and learns from it.
// Interactive play consults and trains the agent; autonomous play bypasses it and climbs one level.
func (c *Controller) Next(current int, reward float64, mode Mode) Transition {
	tr := c.Decide(current, reward, mode)
	c.Learn(tr, mode)
	return tr
}

// Decide picks the transition Next would make without training the agent.
// Pair it with Learn once the new level has been stored.
func (c *Controller) Decide(current int, reward float64, mode Mode) Transition {
	current = c.Clamp(current)

	action := Increase
	if mode != Autonomous {
		action = c.agent.ChooseAction(c.agent.StateFor(current), false)
	}
	next := c.Clamp(current + int(action))

	return Transition{
		From:   current,
		To:     next,
		Action: action,
		Change: changeBetween(current, next),
		Reward: reward,
	}
}

// Learn feeds a transition returned by Decide back into the agent. Autonomous transitions teach nothing.
func (c *Controller) Learn(tr Transition, mode Mode) {
	if mode == Autonomous {
		return
	}
	c.agent.UpdateQValue(c.agent.StateFor(tr.From), tr.Action, tr.Reward, c.agent.StateFor(tr.To))
}

// Reset clears the agent's Q-table.
func (c *Controller) Reset() {
	c.agent.Reset()
}

// Agent returns the controller's learning agent.
func (c *Controller) Agent() *Agent {
	return c.agent
}

// Levels returns the number of difficulty levels.
func (c *Controller) Levels() int {
	return c.levels
}

func changeBetween(from, to int) Change {
	switch {
	case to > from:
		return Increased
	case to < from:
		return Decreased
	default:
		return Held
	}
}
