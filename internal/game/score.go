package game

// Score sums card values with aces counted as 11, then demotes aces to 1
// one at a time while the total exceeds 21.
func Score(cards []Card) int {
	score := 0
	aces := 0

	for _, card := range cards {
		score += card.Value()
		if card.Rank == "A" {
			aces++
		}
	}

	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}

	return score
}

// IsNatural reports a two-card 21. Only meaningful for the initial deal,
// before any split.
func IsNatural(cards []Card) bool {
	return len(cards) == 2 && Score(cards) == 21
}

func IsBust(cards []Card) bool {
	return Score(cards) > 21
}
