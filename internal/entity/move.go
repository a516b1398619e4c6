package entity

type Outcome string

const (
	OutcomeRejected Outcome = "rejected"
	OutcomeContinue Outcome = "continue"
	OutcomeWin      Outcome = "win"
	OutcomeTie      Outcome = "tie"
)

// MoveResult describes what a single move did to the game.
type MoveResult struct {
	Outcome Outcome `json:"outcome"`
	Cell    int     `json:"cell"`
	Player  Mark    `json:"player,omitempty"`
	Next    Mark    `json:"next,omitempty"`
	Line    []int   `json:"line,omitempty"`

	// ScoreChanged asks the caller to persist the score.
	ScoreChanged bool `json:"-"`
}

func (that MoveResult) IsRejected() bool {
	return that.Outcome == OutcomeRejected
}

func (that MoveResult) IsTerminal() bool {
	return that.Outcome == OutcomeWin || that.Outcome == OutcomeTie
}

// Event names the sound a client may play for the move.
func (that MoveResult) Event() string {
	switch that.Outcome {
	case OutcomeWin:
		return "win"
	case OutcomeTie:
		return "tie"
	case OutcomeContinue:
		return "move"
	default:
		return ""
	}
}

// Snapshot is everything a presentation layer needs to render the game.
type Snapshot struct {
	Game      *Game  `json:"game"`
	Score     Score  `json:"score"`
	Message   string `json:"message"`
	Highlight []int  `json:"highlight,omitempty"`
	Event     string `json:"event,omitempty"`
}

func NewSnapshot(game *Game, score Score, event string) Snapshot {
	clone := game.Clone()

	return Snapshot{
		Game:      clone,
		Score:     score,
		Message:   clone.StatusMessage(),
		Highlight: clone.Highlight(),
		Event:     event,
	}
}
