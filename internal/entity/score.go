package entity

// Score counts decisive games per player.
type Score struct {
	X int `json:"x"`
	O int `json:"o"`
}

// Increment adds a win for player. Ties and empty marks are ignored.
func (that *Score) Increment(player Mark) bool {
	switch player {
	case PlayerX:
		that.X++
	case PlayerO:
		that.O++
	default:
		return false
	}
	return true
}

func (that *Score) WinsOf(player Mark) int {
	switch player {
	case PlayerX:
		return that.X
	case PlayerO:
		return that.O
	default:
		return 0
	}
}
