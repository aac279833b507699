package game

// Outcome multipliers applied to a hand's bet at settlement. A loss credits
// nothing: the stake was already deducted when the bet was placed.
const (
	PayoutLoss = 0
	PayoutPush = 1
	PayoutWin  = 2
)

// Ledger tracks the bank and the per-hand bets of the current round. The
// bank survives across rounds; bets reset each round. Bank never goes
// negative: every debit is checked before any mutation.
type Ledger struct {
	Bank     int
	MinBet   int
	BetMain  int
	BetSplit int
}

func NewLedger(bank, minBet int) *Ledger {
	return &Ledger{Bank: bank, MinBet: minBet}
}

func (l *Ledger) Bet(tag HandTag) int {
	if tag == SplitHand {
		return l.BetSplit
	}
	return l.BetMain
}

func (l *Ledger) addBet(tag HandTag, amount int) {
	if tag == SplitHand {
		l.BetSplit += amount
	} else {
		l.BetMain += amount
	}
}

// PlaceBet moves amount from the bank onto tag's bet.
func (l *Ledger) PlaceBet(tag HandTag, amount int) error {
	if amount > l.Bank {
		return ErrInsufficientFunds
	}

	l.Bank -= amount
	l.addBet(tag, amount)
	return nil
}

// DoubleBet deducts the current bet a second time and doubles it.
func (l *Ledger) DoubleBet(tag HandTag) error {
	bet := l.Bet(tag)
	if l.Bank < bet {
		return ErrInsufficientFunds
	}

	l.Bank -= bet
	l.addBet(tag, bet)
	return nil
}

// Settle credits tag's bet times the outcome multiplier back to the bank.
func (l *Ledger) Settle(tag HandTag, multiplier int) {
	l.Bank += l.Bet(tag) * multiplier
}

// OpenRound clears both bets and auto-places the minimum bet on the main
// hand. With the bank below the minimum no bet is placed and the round
// cannot proceed to a deal.
func (l *Ledger) OpenRound() error {
	l.BetMain = 0
	l.BetSplit = 0

	if l.Bank < l.MinBet {
		return ErrInsufficientFunds
	}

	return l.PlaceBet(MainHand, l.MinBet)
}

func (l *Ledger) CanAfford(amount int) bool {
	return l.Bank >= amount
}
