package game

// HandView is the immutable per-hand slice of a snapshot.
type HandView struct {
	Cards  []Card
	Score  int
	Bet    int
	Stood  bool
	Busted bool
	Result Result
}

// Snapshot is the full table state handed to the presentation layer after
// every mutating command. The dealer's hole card is flagged, not elided:
// masking it is the presenter's call.
type Snapshot struct {
	RoundID    string
	Phase      Phase
	Active     HandTag
	Dealer     HandView
	HoleHidden bool
	Main       HandView
	Split      *HandView
	Bank       int
	MinBet     int
}

func handView(h *Hand, bet int) HandView {
	cards := make([]Card, len(h.Cards))
	copy(cards, h.Cards)

	return HandView{
		Cards:  cards,
		Score:  h.Score(),
		Bet:    bet,
		Stood:  h.Stood,
		Busted: h.Busted,
		Result: h.Result,
	}
}

// Snapshot captures the current table state. During betting, before any
// deal, the hand views are empty.
func (t *Table) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:  t.phase,
		Active: MainHand,
		Bank:   t.ledger.Bank,
		MinBet: t.ledger.MinBet,
		Main:   HandView{Bet: t.ledger.BetMain},
	}

	if t.round == nil {
		return snap
	}

	snap.RoundID = t.round.ID
	snap.Active = t.round.Active
	snap.Dealer = handView(t.round.Dealer, 0)
	snap.HoleHidden = t.round.HoleHidden
	snap.Main = handView(t.round.Main, t.ledger.BetMain)

	if t.round.Split != nil {
		split := handView(t.round.Split, t.ledger.BetSplit)
		snap.Split = &split
	}

	return snap
}
