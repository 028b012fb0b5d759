package game

// State enumerates the running game's coarse states.
type State int

const (
	StatePlaying State = iota
	StatePaused
	StateGameOverWin
	StateGameOverLose
)

// StateMachine tracks game state transitions.
type StateMachine struct {
	state State
}

func NewStateMachine() *StateMachine { return &StateMachine{state: StatePlaying} }

func (s *StateMachine) State() State { return s.state }

func (s *StateMachine) IsPlaying() bool { return s.state == StatePlaying }

func (s *StateMachine) IsPaused() bool { return s.state == StatePaused }

// TogglePause flips between playing and paused. A finished game stays
// finished.
func (s *StateMachine) TogglePause() {
	switch s.state {
	case StatePlaying:
		s.state = StatePaused
	case StatePaused:
		s.state = StatePlaying
	}
}

func (s *StateMachine) IsGameOver() bool {
	return s.state == StateGameOverWin || s.state == StateGameOverLose
}

func (s *StateMachine) PlayerWon() bool { return s.state == StateGameOverWin }

// Win marks the player victorious (kitten exhausted).
func (s *StateMachine) Win() { s.state = StateGameOverWin }

// Lose marks the player defeated (mouse health reached zero).
func (s *StateMachine) Lose() { s.state = StateGameOverLose }

// Reset returns to the playing state.
func (s *StateMachine) Reset() { s.state = StatePlaying }
