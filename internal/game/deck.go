package game

import "math/rand"

// RNG is the randomness source for shuffling. Tests inject deterministic
// sequences; production uses the shared math/rand source.
type RNG interface {
	Intn(n int) int
}

type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.Intn(n) }

// StdRNG shuffles with math/rand.
var StdRNG RNG = stdRNG{}

// Deck holds one 52-card pack, consumed from the top. A round owns exactly
// one deck; it is never refilled.
type Deck struct {
	cards []Card
}

// NewDeck builds a full 52-card deck, one card per rank and suit, and
// shuffles it with a Fisher-Yates pass over rng.
func NewDeck(rng RNG) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
	}

	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}

	d.shuffle(rng)
	return d
}

func (d *Deck) shuffle(rng RNG) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. An empty deck is an invariant
// breach in a bounded round.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}

	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}
