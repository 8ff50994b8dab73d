// Package reward computes completion bonuses. Every bonus has the shape
// max(0, baseline - penalty) so a poor round never loses points at the end.
package reward

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cs-practicals/algosim/internal/oracle"
)

// Baseline is the bonus a flawless round earns.
const Baseline = 100

// PerfectInsertionBonus is awarded when every card went to its correct slot.
const PerfectInsertionBonus = 50

// Bubble rewards finishing in few moves.
func Bubble(moves int) int {
	return floor(Baseline - moves)
}

// Hanoi combines move efficiency against 2^level - 1 with a time bonus.
func Hanoi(level, moves int, elapsed time.Duration) int {
	optimal := oracle.HanoiMinMoves(level)
	efficiency := 0
	if moves > 0 {
		if moves < optimal {
			moves = optimal
		}
		efficiency = optimal * Baseline / moves
	}
	return efficiency + floor(Baseline-int(elapsed/time.Second))
}

// Attempts rewards games scored by counted attempts: 10 points per wrong try.
func Attempts(wrong int) int {
	return floor(Baseline - 10*wrong)
}

// Insertion gives a flat bonus for a perfect hand.
func Insertion(perfect bool) int {
	if perfect {
		return PerfectInsertionBonus
	}
	return 0
}

// Puzzle penalizes every swap beyond the minimum needed.
func Puzzle(moves, minSwaps int) int {
	extra := moves - minSwaps
	if extra < 0 {
		extra = 0
	}
	return floor(Baseline - 10*extra)
}

// Queue pays two points per boarded passenger.
func Queue(boarded int) int {
	return floor(2 * boarded)
}

// Scheduling rewards a low average turnaround.
func Scheduling(avgTurnaround decimal.Decimal) int {
	return floor(Baseline - int(avgTurnaround.Floor().IntPart()))
}

func floor(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
