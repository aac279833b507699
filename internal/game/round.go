package game

import "github.com/google/uuid"

type HandTag string

const (
	MainHand  HandTag = "main"
	SplitHand HandTag = "split"
)

type Phase int

const (
	PhaseBetting Phase = iota
	PhasePlayerTurn
	PhaseDealerTurn
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "betting"
	case PhasePlayerTurn:
		return "player_turn"
	case PhaseDealerTurn:
		return "dealer_turn"
	case PhaseSettled:
		return "settled"
	}
	return "unknown"
}

type Result int

const (
	ResultNone Result = iota
	ResultWin
	ResultLoss
	ResultPush
)

// Multiplier maps a settled result to its payout multiplier.
func (r Result) Multiplier() int {
	switch r {
	case ResultWin:
		return PayoutWin
	case ResultPush:
		return PayoutPush
	}
	return PayoutLoss
}

type Hand struct {
	Cards  []Card
	Stood  bool
	Busted bool
	Result Result
}

func NewHand() *Hand {
	return &Hand{Cards: make([]Card, 0, 10)}
}

func (h *Hand) Score() int {
	return Score(h.Cards)
}

// Round is the per-deal aggregate: one deck, the dealer hand, the player's
// main hand and, after a split, the split hand. Discarded wholesale when the
// next round is opened.
type Round struct {
	ID         string
	Deck       *Deck
	Dealer     *Hand
	Main       *Hand
	Split      *Hand // nil until a split happens
	Active     HandTag
	HoleHidden bool
}

func NewRound(rng RNG) *Round {
	return &Round{
		ID:         uuid.NewString(),
		Deck:       NewDeck(rng),
		Dealer:     NewHand(),
		Main:       NewHand(),
		Active:     MainHand,
		HoleHidden: true,
	}
}

func (r *Round) Hand(tag HandTag) *Hand {
	if tag == SplitHand {
		return r.Split
	}
	return r.Main
}

func (r *Round) ActiveHand() *Hand {
	return r.Hand(r.Active)
}

// CanSplit reports whether the main hand is a splittable pair. Funds are
// checked separately by the ledger; a split is allowed only once.
func (r *Round) CanSplit() bool {
	return r.Active == MainHand &&
		r.Split == nil &&
		len(r.Main.Cards) == 2 &&
		r.Main.Cards[0].Rank == r.Main.Cards[1].Rank
}

// playerHandsBusted reports whether every player hand busted, in which case
// the dealer has nothing to play for.
func (r *Round) playerHandsBusted() bool {
	if !r.Main.Busted {
		return false
	}
	return r.Split == nil || r.Split.Busted
}

// splitPending reports whether play still owes a turn to the split hand.
func (r *Round) splitPending() bool {
	return r.Active == MainHand && r.Split != nil && !r.Split.Stood
}
