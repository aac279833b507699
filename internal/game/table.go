package game

import "log"

// dealerStandsAt is the score at which the dealer stops drawing.
const dealerStandsAt = 17

// Table is the command surface of one blackjack game: it owns the betting
// ledger for the session and the round currently in play, and drives the
// Betting -> PlayerTurn -> DealerTurn -> Settled cycle.
//
// Every command is synchronous and atomic: it either applies fully and
// notifies the observer with a fresh snapshot, or returns a typed error
// having mutated nothing. Callers are expected to serialize commands; the
// table itself holds no lock.
type Table struct {
	phase    Phase
	round    *Round
	ledger   *Ledger
	rng      RNG
	observer func(Snapshot)
}

// NewTable opens a table in the betting phase with the minimum bet already
// placed. If bank is below minBet no bet is placed and Deal will reject with
// ErrInsufficientFunds.
func NewTable(bank, minBet int, rng RNG) *Table {
	t := &Table{
		phase:  PhaseBetting,
		ledger: NewLedger(bank, minBet),
		rng:    rng,
	}
	_ = t.ledger.OpenRound()
	return t
}

// SetObserver registers the presentation callback, invoked with a snapshot
// after every mutating command.
func (t *Table) SetObserver(fn func(Snapshot)) {
	t.observer = fn
}

func (t *Table) Phase() Phase    { return t.phase }
func (t *Table) Ledger() *Ledger { return t.ledger }

func (t *Table) notify() {
	if t.observer != nil {
		t.observer(t.Snapshot())
	}
}

// PlaceBet adds amount to the main bet during the betting phase.
func (t *Table) PlaceBet(amount int) error {
	if t.phase != PhaseBetting {
		return ErrIllegalAction
	}
	if err := t.ledger.PlaceBet(MainHand, amount); err != nil {
		return err
	}

	t.notify()
	return nil
}

// Deal starts the round: fresh shuffled deck, two cards to the player, two
// to the dealer with the second held face down. A natural 21 auto-stands the
// main hand, handing play straight to the dealer.
func (t *Table) Deal() error {
	if t.phase != PhaseBetting {
		return ErrIllegalAction
	}
	if t.ledger.BetMain < t.ledger.MinBet {
		return ErrInsufficientFunds
	}

	round := NewRound(t.rng)
	if err := t.drawInto(round, round.Main); err != nil {
		return err
	}
	if err := t.drawInto(round, round.Main); err != nil {
		return err
	}
	if err := t.drawInto(round, round.Dealer); err != nil {
		return err
	}
	if err := t.drawInto(round, round.Dealer); err != nil {
		return err
	}

	t.round = round
	t.phase = PhasePlayerTurn

	if IsNatural(round.Main.Cards) {
		t.standActive()
	}

	t.notify()
	return nil
}

// Hit draws one card into the active hand. Exactly 21 auto-stands; a bust
// marks the hand and moves play along.
func (t *Table) Hit() error {
	if t.phase != PhasePlayerTurn {
		return ErrIllegalAction
	}

	hand := t.round.ActiveHand()
	if err := t.drawInto(t.round, hand); err != nil {
		return err
	}

	switch score := hand.Score(); {
	case score > 21:
		hand.Busted = true
		hand.Stood = true
		t.advance()
	case score == 21:
		t.standActive()
	}

	t.notify()
	return nil
}

// Stand marks the active hand stood. With a split hand still waiting, play
// switches to it; otherwise the hole card is revealed and the dealer plays.
func (t *Table) Stand() error {
	if t.phase != PhasePlayerTurn {
		return ErrIllegalAction
	}

	t.standActive()
	t.notify()
	return nil
}

// Split moves the main hand's second card into a new split hand and mirrors
// the main bet onto it. No replacement cards are dealt; each one-card hand
// plays on through subsequent hits.
func (t *Table) Split() error {
	if t.phase != PhasePlayerTurn {
		return ErrIllegalAction
	}
	if !t.round.CanSplit() {
		return ErrSplitNotAllowed
	}
	if err := t.ledger.PlaceBet(SplitHand, t.ledger.BetMain); err != nil {
		return err
	}

	split := NewHand()
	split.Cards = append(split.Cards, t.round.Main.Cards[1])
	t.round.Main.Cards = t.round.Main.Cards[:1]
	t.round.Split = split

	t.notify()
	return nil
}

// Double doubles the active hand's bet, draws exactly one card and forces
// the hand to stand.
func (t *Table) Double() error {
	if t.phase != PhasePlayerTurn {
		return ErrIllegalAction
	}
	if err := t.ledger.DoubleBet(t.round.Active); err != nil {
		return err
	}

	hand := t.round.ActiveHand()
	if err := t.drawInto(t.round, hand); err != nil {
		return err
	}
	if hand.Score() > 21 {
		hand.Busted = true
		hand.Stood = true
		t.advance()
	} else {
		t.standActive()
	}

	t.notify()
	return nil
}

// DealerStep runs one step of the dealer's turn: one draw while the dealer
// score is below 17. Once the score reaches 17 or more the round settles and
// done is reported. Presentation paces the steps; the machine only orders
// them.
func (t *Table) DealerStep() (done bool, err error) {
	if t.phase != PhaseDealerTurn {
		return false, ErrIllegalAction
	}

	if t.round.Dealer.Score() < dealerStandsAt {
		if err := t.drawInto(t.round, t.round.Dealer); err != nil {
			return false, err
		}
	}

	if t.round.Dealer.Score() >= dealerStandsAt {
		t.settle()
		t.notify()
		return true, nil
	}

	t.notify()
	return false, nil
}

// NextRound discards the finished round and reopens betting with the
// minimum bet auto-placed. With the bank below the minimum the phase still
// returns to betting but the shortfall is surfaced.
func (t *Table) NextRound() error {
	if t.phase != PhaseSettled {
		return ErrIllegalAction
	}

	t.round = nil
	t.phase = PhaseBetting
	err := t.ledger.OpenRound()

	t.notify()
	return err
}

func (t *Table) drawInto(round *Round, hand *Hand) (err error) {
	card, err := round.Deck.Draw()
	if err != nil {
		// Unreachable in a bounded round; a defect if it ever fires.
		log.Printf("defect: round %s: %v", round.ID, err)
		return err
	}
	hand.Cards = append(hand.Cards, card)
	return nil
}

// standActive stands the active hand and moves play along.
func (t *Table) standActive() {
	t.round.ActiveHand().Stood = true
	t.advance()
}

// advance routes play after the active hand finishes: to the split hand if
// one is still waiting, straight to settlement if every player hand busted,
// otherwise to the dealer with the hole card revealed.
func (t *Table) advance() {
	if t.round.splitPending() {
		t.round.Active = SplitHand
		return
	}

	t.round.HoleHidden = false
	if t.round.playerHandsBusted() {
		t.settle()
		return
	}
	t.phase = PhaseDealerTurn
}

// settle scores each player hand against the dealer's final score and pays
// the ledger. Hands settle independently; the dealer score is fixed by the
// time this runs.
func (t *Table) settle() {
	dealerScore := t.round.Dealer.Score()

	t.round.Main.Result = handResult(t.round.Main, dealerScore)
	t.ledger.Settle(MainHand, t.round.Main.Result.Multiplier())

	if t.round.Split != nil {
		t.round.Split.Result = handResult(t.round.Split, dealerScore)
		t.ledger.Settle(SplitHand, t.round.Split.Result.Multiplier())
	}

	t.phase = PhaseSettled
}

func handResult(hand *Hand, dealerScore int) Result {
	score := hand.Score()
	switch {
	case hand.Busted:
		return ResultLoss
	case score > dealerScore || dealerScore > 21:
		return ResultWin
	case dealerScore > score:
		return ResultLoss
	}
	return ResultPush
}
