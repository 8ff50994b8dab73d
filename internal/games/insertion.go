package games

import (
	"fmt"

	"github.com/cs-practicals/algosim/internal/oracle"
	"github.com/cs-practicals/algosim/internal/projection"
	"github.com/cs-practicals/algosim/internal/reward"
	"github.com/cs-practicals/algosim/internal/sim"
)

// InsertionState is the deck still to deal and the hand built so far.
// Deck[0] is the card being placed.
type InsertionState struct {
	Deck    []int `json:"deck"`
	Hand    []int `json:"hand"`
	Perfect bool  `json:"perfect"`
	Wrong   int   `json:"wrong"`
}

// InsertionAction places the current card at Position in the hand.
type InsertionAction struct {
	Position int `json:"position"`
}

// InsertionView is the hand as bars plus the card in play.
type InsertionView struct {
	Hand      []projection.Bar `json:"hand"`
	Card      *int             `json:"card"`
	Remaining int              `json:"remaining"`
}

type insertionRules struct{}

func (insertionRules) Validate(s InsertionState, a InsertionAction) error {
	if len(s.Deck) == 0 {
		return sim.Invalid("the deck is empty")
	}
	if a.Position < 0 || a.Position > len(s.Hand) {
		return sim.Invalid(fmt.Sprintf("position must be between 0 and %d", len(s.Hand)))
	}
	return nil
}

// Apply inserts the card where the player asked. Placing it anywhere that
// yields a different hand than the textbook position is a mistake.
func (insertionRules) Apply(s InsertionState, a InsertionAction) sim.Outcome[InsertionState] {
	card := s.Deck[0]
	want := oracle.InsertionPosition(s.Hand, card)
	hand := oracle.InsertAt(s.Hand, a.Position, card)
	correct := oracle.Equal(hand, oracle.InsertAt(s.Hand, want, card))

	next := s
	next.Deck = append([]int(nil), s.Deck[1:]...)
	next.Hand = hand
	step := sim.Insert{Value: card, Position: a.Position, Correct: correct}

	if !correct {
		next.Perfect = false
		next.Wrong++
		return wrong(next, wrongPenalty, fmt.Sprintf("%d belonged at position %d", card, want), step)
	}
	return sim.Outcome[InsertionState]{Next: next, Delta: correctPoints, Move: true, Steps: []sim.Step{step}}
}

func (insertionRules) Done(s InsertionState) bool { return len(s.Deck) == 0 }

func (insertionRules) Bonus(s InsertionState, _ sim.State) int { return reward.Insertion(s.Perfect) }

// NewInsertion builds the insertion sort card game. A misplaced card
// stays where it was put and the hand loses its perfect flag.
func NewInsertion(cfg Config, opts sim.Options) Game {
	e := newEngine[InsertionState, InsertionAction](KindInsertion, cfg, insertionRules{}, opts)
	e.initial = func(rng *sim.Rand) InsertionState {
		deck := values(cfg, rng, cfg.level()+4, 1, 13)
		return InsertionState{Deck: deck, Hand: []int{}, Perfect: true}
	}
	e.project = func(s InsertionState) any {
		v := InsertionView{Hand: projection.Bars(s.Hand), Remaining: len(s.Deck)}
		if len(s.Deck) > 0 {
			card := s.Deck[0]
			v.Card = &card
		}
		return v
	}
	e.hint = func(s InsertionState) any {
		if len(s.Deck) == 0 {
			return nil
		}
		return InsertionAction{Position: oracle.InsertionPosition(s.Hand, s.Deck[0])}
	}
	return e
}
