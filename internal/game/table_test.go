package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRNG replays a pre-computed value sequence.
type seqRNG struct {
	vals []int
	i    int
}

func (r *seqRNG) Intn(n int) int {
	v := r.vals[r.i]
	r.i++
	return v
}

// riggedRNG builds an RNG whose shuffle choices leave the deck drawing the
// given cards first; the rest of the deck keeps enumeration order.
func riggedRNG(first ...Card) RNG {
	cur := make([]Card, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cur = append(cur, Card{Rank: rank, Suit: suit})
		}
	}

	var vals []int
	for i := 51; i > 0; i-- {
		j := i
		if drawIdx := 51 - i; drawIdx < len(first) {
			for k := 0; k <= i; k++ {
				if cur[k] == first[drawIdx] {
					j = k
					break
				}
			}
		}
		vals = append(vals, j)
		cur[i], cur[j] = cur[j], cur[i]
	}

	return &seqRNG{vals: vals}
}

// stackedDeck builds a deck whose draws come in the given order.
func stackedDeck(next ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(next))}
	for i, card := range next {
		d.cards[len(next)-1-i] = card
	}
	return d
}

// playerTurnTable builds a table mid-round, minimum bet placed, with fixed
// hands and a stacked deck.
func playerTurnTable(bank int, main, dealer []Card, next ...Card) *Table {
	t := NewTable(bank, 5, StdRNG)
	t.phase = PhasePlayerTurn
	t.round = &Round{
		ID:         "test-round",
		Deck:       stackedDeck(next...),
		Dealer:     &Hand{Cards: dealer},
		Main:       &Hand{Cards: main},
		Active:     MainHand,
		HoleHidden: true,
	}
	return t
}

func TestNewTableAutoPlacesMinimumBet(t *testing.T) {
	tbl := NewTable(1000, 5, StdRNG)

	assert.Equal(t, PhaseBetting, tbl.Phase())
	assert.Equal(t, 995, tbl.Ledger().Bank)
	assert.Equal(t, 5, tbl.Ledger().BetMain)
}

func TestDeal(t *testing.T) {
	tbl := NewTable(1000, 5, riggedRNG(
		c("7", Spades), c("8", Hearts), // player
		c("K", Clubs), c("2", Diamonds), // dealer, second face down
	))

	require.NoError(t, tbl.Deal())

	snap := tbl.Snapshot()
	assert.Equal(t, PhasePlayerTurn, snap.Phase)
	assert.Equal(t, []Card{c("7", Spades), c("8", Hearts)}, snap.Main.Cards)
	assert.Equal(t, []Card{c("K", Clubs), c("2", Diamonds)}, snap.Dealer.Cards)
	assert.True(t, snap.HoleHidden)
	assert.Equal(t, MainHand, snap.Active)
	assert.Nil(t, snap.Split)
	assert.NotEmpty(t, snap.RoundID)
	assert.Equal(t, 48, tbl.round.Deck.Remaining())
}

func TestHitTo21AutoStandsAndDealerPlays(t *testing.T) {
	tbl := NewTable(1000, 5, riggedRNG(
		c("7", Spades), c("8", Hearts),
		c("K", Clubs), c("2", Diamonds),
		c("6", Diamonds), // player hit -> 21
		c("5", Spades),   // dealer draw -> 17
	))
	require.NoError(t, tbl.Deal())

	require.NoError(t, tbl.Hit())
	snap := tbl.Snapshot()
	assert.Equal(t, 21, snap.Main.Score)
	assert.True(t, snap.Main.Stood)
	assert.Equal(t, PhaseDealerTurn, snap.Phase)
	assert.False(t, snap.HoleHidden)

	done, err := tbl.DealerStep()
	require.NoError(t, err)
	assert.True(t, done)

	snap = tbl.Snapshot()
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, 17, snap.Dealer.Score)
	assert.Equal(t, ResultWin, snap.Main.Result)
	assert.Equal(t, 1005, snap.Bank)
}

func TestDealNaturalAutoStands(t *testing.T) {
	tbl := NewTable(1000, 5, riggedRNG(
		c("A", Spades), c("K", Hearts),
		c("9", Diamonds), c("5", Clubs),
		c("10", Clubs), // dealer draw -> 24, bust
	))

	require.NoError(t, tbl.Deal())
	snap := tbl.Snapshot()
	assert.Equal(t, PhaseDealerTurn, snap.Phase)
	assert.True(t, snap.Main.Stood)
	assert.False(t, snap.HoleHidden)

	done, err := tbl.DealerStep()
	require.NoError(t, err)
	assert.True(t, done)
	snap = tbl.Snapshot()
	assert.True(t, snap.Dealer.Score > 21)
	assert.Equal(t, ResultWin, snap.Main.Result)
	assert.Equal(t, 1005, snap.Bank)
}

func TestSplitMovesOneCardAndMirrorsBet(t *testing.T) {
	tbl := playerTurnTable(1000, cards(c("8", Spades), c("8", Hearts)), cards(c("K", Clubs), c("7", Hearts)))

	require.NoError(t, tbl.Split())

	snap := tbl.Snapshot()
	assert.Equal(t, []Card{c("8", Spades)}, snap.Main.Cards)
	require.NotNil(t, snap.Split)
	assert.Equal(t, []Card{c("8", Hearts)}, snap.Split.Cards)
	assert.Equal(t, 5, snap.Split.Bet)
	assert.Equal(t, 990, snap.Bank)
	assert.Equal(t, MainHand, snap.Active)

	// No replacement cards are dealt; each hand plays on from one card.
	assert.Len(t, tbl.round.Main.Cards, 1)
	assert.Len(t, tbl.round.Split.Cards, 1)
}

func TestSplitRejections(t *testing.T) {
	// Not a pair.
	tbl := playerTurnTable(1000, cards(c("8", Spades), c("9", Hearts)), cards(c("K", Clubs), c("7", Hearts)))
	assert.ErrorIs(t, tbl.Split(), ErrSplitNotAllowed)

	// Pair, but the bank cannot cover the mirrored bet.
	tbl = playerTurnTable(5, cards(c("8", Spades), c("8", Hearts)), cards(c("K", Clubs), c("7", Hearts)))
	require.Equal(t, 0, tbl.Ledger().Bank)
	assert.ErrorIs(t, tbl.Split(), ErrInsufficientFunds)
	assert.Len(t, tbl.round.Main.Cards, 2)
	assert.Nil(t, tbl.round.Split)

	// Only one split per round.
	tbl = playerTurnTable(1000, cards(c("8", Spades), c("8", Hearts)), cards(c("K", Clubs), c("7", Hearts)))
	require.NoError(t, tbl.Split())
	assert.ErrorIs(t, tbl.Split(), ErrSplitNotAllowed)
}

func TestSplitRoundPlaysBothHands(t *testing.T) {
	tbl := playerTurnTable(1000,
		cards(c("8", Spades), c("8", Hearts)),
		cards(c("10", Diamonds), c("7", Clubs)), // dealer 17
		c("10", Clubs), c("5", Diamonds), c("6", Spades))

	require.NoError(t, tbl.Split())
	require.NoError(t, tbl.Hit()) // main: 8+10 = 18
	require.NoError(t, tbl.Stand())

	snap := tbl.Snapshot()
	assert.Equal(t, SplitHand, snap.Active)
	assert.Equal(t, PhasePlayerTurn, snap.Phase)
	assert.True(t, snap.HoleHidden)

	require.NoError(t, tbl.Hit()) // split: 8+5 = 13
	require.NoError(t, tbl.Hit()) // split: 19
	require.NoError(t, tbl.Stand())
	require.Equal(t, PhaseDealerTurn, tbl.Phase())

	done, err := tbl.DealerStep()
	require.NoError(t, err)
	assert.True(t, done)

	snap = tbl.Snapshot()
	assert.Equal(t, ResultWin, snap.Main.Result)
	assert.Equal(t, ResultWin, snap.Split.Result)
	assert.Equal(t, 1010, snap.Bank)
}

func TestMainBustSwitchesToSplitHand(t *testing.T) {
	tbl := playerTurnTable(1000,
		cards(c("8", Spades), c("8", Hearts)),
		cards(c("10", Diamonds), c("7", Clubs)),
		c("10", Clubs), c("6", Diamonds), c("K", Spades))

	require.NoError(t, tbl.Split())
	require.NoError(t, tbl.Hit()) // main: 18
	require.NoError(t, tbl.Hit()) // main: 24, bust

	snap := tbl.Snapshot()
	assert.True(t, snap.Main.Busted)
	assert.Equal(t, SplitHand, snap.Active)
	assert.Equal(t, PhasePlayerTurn, snap.Phase)

	require.NoError(t, tbl.Hit()) // split: 8+K = 18
	require.NoError(t, tbl.Stand())
	require.Equal(t, PhaseDealerTurn, tbl.Phase())

	done, err := tbl.DealerStep()
	require.NoError(t, err)
	require.True(t, done)

	snap = tbl.Snapshot()
	assert.Equal(t, ResultLoss, snap.Main.Result)
	assert.Equal(t, ResultWin, snap.Split.Result)
	// Main stake forfeited, split returns 10: 990 + 10.
	assert.Equal(t, 1000, snap.Bank)
}

func TestBustWithoutSplitSettlesImmediately(t *testing.T) {
	tbl := playerTurnTable(1000, cards(c("10", Clubs), c("9", Diamonds)), cards(c("K", Clubs), c("7", Hearts)),
		c("5", Spades))

	require.NoError(t, tbl.Hit()) // 24, bust

	snap := tbl.Snapshot()
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.True(t, snap.Main.Busted)
	assert.Equal(t, ResultLoss, snap.Main.Result)
	// Dealer never plays when every player hand busted.
	assert.Len(t, snap.Dealer.Cards, 2)
	// Stake was forfeited at placement; settlement changes nothing.
	assert.Equal(t, 995, snap.Bank)
}

func TestDealerDrawsToSeventeenAndStops(t *testing.T) {
	tbl := playerTurnTable(1000, cards(c("10", Spades), c("9", Hearts)), cards(c("9", Spades), c("6", Hearts)),
		c("2", Clubs), c("K", Diamonds))
	require.NoError(t, tbl.Stand())

	done, err := tbl.DealerStep()
	require.NoError(t, err)
	assert.True(t, done)

	snap := tbl.Snapshot()
	// 15 -> 17, and not a card more.
	assert.Equal(t, 17, snap.Dealer.Score)
	assert.Len(t, snap.Dealer.Cards, 3)
	assert.Equal(t, ResultWin, snap.Main.Result)
}

func TestDealerStepsAreDiscrete(t *testing.T) {
	tbl := playerTurnTable(1000, cards(c("10", Spades), c("9", Hearts)), cards(c("2", Spades), c("2", Hearts)),
		c("2", Diamonds), c("5", Clubs), c("K", Hearts))
	require.NoError(t, tbl.Stand())

	done, err := tbl.DealerStep() // 4 -> 6
	require.NoError(t, err)
	assert.False(t, done)

	done, err = tbl.DealerStep() // 6 -> 11
	require.NoError(t, err)
	assert.False(t, done)

	done, err = tbl.DealerStep() // 11 -> 21, stop
	require.NoError(t, err)
	assert.True(t, done)

	assert.Equal(t, 21, tbl.Snapshot().Dealer.Score)
	assert.Equal(t, PhaseSettled, tbl.Phase())
}

func TestPushReturnsStake(t *testing.T) {
	tbl := playerTurnTable(1000, cards(c("10", Spades), c("9", Hearts)), cards(c("10", Diamonds), c("9", Clubs)))
	require.NoError(t, tbl.Stand())

	done, err := tbl.DealerStep() // dealer already at 19
	require.NoError(t, err)
	assert.True(t, done)

	snap := tbl.Snapshot()
	assert.Len(t, snap.Dealer.Cards, 2)
	assert.Equal(t, ResultPush, snap.Main.Result)
	assert.Equal(t, 1000, snap.Bank)
}

func TestDoubleDrawsOneCardAndStands(t *testing.T) {
	tbl := playerTurnTable(1000, cards(c("5", Spades), c("6", Hearts)), cards(c("K", Clubs), c("7", Hearts)),
		c("10", Diamonds))

	require.NoError(t, tbl.Double())

	snap := tbl.Snapshot()
	assert.Equal(t, 10, snap.Main.Bet)
	assert.Equal(t, 990, snap.Bank)
	assert.Equal(t, 21, snap.Main.Score)
	assert.True(t, snap.Main.Stood)
	require.Equal(t, PhaseDealerTurn, snap.Phase)

	done, err := tbl.DealerStep()
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, 1010, tbl.Snapshot().Bank)
}

func TestDoubleRejectedWithoutFunds(t *testing.T) {
	tbl := playerTurnTable(5, cards(c("5", Spades), c("6", Hearts)), cards(c("K", Clubs), c("7", Hearts)),
		c("10", Diamonds))
	require.Equal(t, 0, tbl.Ledger().Bank)

	assert.ErrorIs(t, tbl.Double(), ErrInsufficientFunds)
	assert.Len(t, tbl.round.Main.Cards, 2)
	assert.Equal(t, 5, tbl.Ledger().BetMain)
}

func TestDoubleBustSettles(t *testing.T) {
	tbl := playerTurnTable(1000, cards(c("10", Spades), c("6", Hearts)), cards(c("K", Clubs), c("7", Hearts)),
		c("K", Diamonds))

	require.NoError(t, tbl.Double())

	snap := tbl.Snapshot()
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, ResultLoss, snap.Main.Result)
	assert.Equal(t, 990, snap.Bank)
}

func TestPlaceBetOnlyDuringBetting(t *testing.T) {
	tbl := NewTable(1000, 5, StdRNG)
	require.NoError(t, tbl.PlaceBet(25))
	assert.Equal(t, 30, tbl.Ledger().BetMain)
	assert.Equal(t, 970, tbl.Ledger().Bank)

	assert.ErrorIs(t, tbl.PlaceBet(2000), ErrInsufficientFunds)
	assert.Equal(t, 970, tbl.Ledger().Bank)

	tbl = playerTurnTable(1000, cards(c("5", Spades), c("6", Hearts)), cards(c("K", Clubs), c("7", Hearts)))
	assert.ErrorIs(t, tbl.PlaceBet(5), ErrIllegalAction)
}

func TestActionsRejectedOutsidePhase(t *testing.T) {
	tbl := NewTable(1000, 5, StdRNG)

	assert.ErrorIs(t, tbl.Hit(), ErrIllegalAction)
	assert.ErrorIs(t, tbl.Stand(), ErrIllegalAction)
	assert.ErrorIs(t, tbl.Split(), ErrIllegalAction)
	assert.ErrorIs(t, tbl.Double(), ErrIllegalAction)
	assert.ErrorIs(t, tbl.NextRound(), ErrIllegalAction)
	_, err := tbl.DealerStep()
	assert.ErrorIs(t, err, ErrIllegalAction)

	// No player action may interrupt the dealer's sequence.
	tbl = playerTurnTable(1000, cards(c("10", Spades), c("9", Hearts)), cards(c("2", Spades), c("2", Hearts)),
		c("2", Diamonds), c("5", Clubs), c("K", Hearts))
	require.NoError(t, tbl.Stand())
	assert.ErrorIs(t, tbl.Hit(), ErrIllegalAction)
	assert.ErrorIs(t, tbl.Stand(), ErrIllegalAction)
	assert.ErrorIs(t, tbl.PlaceBet(5), ErrIllegalAction)
}

func TestNextRound(t *testing.T) {
	tbl := playerTurnTable(1000, cards(c("10", Clubs), c("9", Diamonds)), cards(c("K", Clubs), c("7", Hearts)),
		c("5", Spades))
	require.NoError(t, tbl.Hit()) // bust, settled
	require.Equal(t, PhaseSettled, tbl.Phase())

	require.NoError(t, tbl.NextRound())
	snap := tbl.Snapshot()
	assert.Equal(t, PhaseBetting, snap.Phase)
	assert.Empty(t, snap.RoundID)
	assert.Equal(t, 5, snap.Main.Bet)
	assert.Equal(t, 990, snap.Bank)
	assert.Nil(t, snap.Split)
}

func TestNextRoundBelowMinimumSurfaces(t *testing.T) {
	tbl := playerTurnTable(8, cards(c("10", Clubs), c("9", Diamonds)), cards(c("K", Clubs), c("7", Hearts)),
		c("5", Spades))
	require.NoError(t, tbl.Hit()) // bust: bank stays at 3

	err := tbl.NextRound()
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, PhaseBetting, tbl.Phase())
	assert.Equal(t, 3, tbl.Ledger().Bank)
	assert.Equal(t, 0, tbl.Ledger().BetMain)
	assert.ErrorIs(t, tbl.Deal(), ErrInsufficientFunds)
}

func TestObserverNotifiedPerMutation(t *testing.T) {
	tbl := NewTable(1000, 5, riggedRNG(
		c("7", Spades), c("8", Hearts),
		c("K", Clubs), c("2", Diamonds),
	))

	var snaps []Snapshot
	tbl.SetObserver(func(s Snapshot) { snaps = append(snaps, s) })

	require.NoError(t, tbl.PlaceBet(10))
	require.NoError(t, tbl.Deal())
	require.Len(t, snaps, 2)
	assert.Equal(t, PhaseBetting, snaps[0].Phase)
	assert.Equal(t, PhasePlayerTurn, snaps[1].Phase)
	assert.True(t, snaps[1].HoleHidden)

	// Rejected commands mutate nothing and emit nothing.
	require.Error(t, tbl.PlaceBet(5))
	assert.Len(t, snaps, 2)
}
