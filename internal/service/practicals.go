package service

import (
	"errors"

	"github.com/cs-practicals/algosim/internal/config"
	"github.com/cs-practicals/algosim/internal/games"
	"github.com/cs-practicals/algosim/internal/models"
	"github.com/cs-practicals/algosim/internal/oracle"
)

// ErrPracticalNotFound is returned for an id missing from the catalogue.
var ErrPracticalNotFound = errors.New("practical not found")

type practical struct {
	info   models.Practical
	config games.Config
}

// Catalogue resolves practical ids to game configurations.
type Catalogue struct {
	order []string
	byID  map[string]practical
}

// NewCatalogue builds the fixed set of practicals. Timings from cfg apply
// to every game that animates or counts down.
func NewCatalogue(cfg config.GameConfig) *Catalogue {
	c := &Catalogue{byID: make(map[string]practical)}

	c.add(models.Practical{
		ID:          "bubble-sort",
		Title:       "Bubble Sort",
		Description: "Decide for each adjacent pair whether it must be swapped.",
	}, games.Config{
		Kind:      games.KindBubbleSort,
		Level:     1,
		Values:    []int{64, 34, 25, 12, 22, 11, 90},
		SwapDelay: cfg.SwapDelay,
	})
	c.add(models.Practical{
		ID:          "insertion-cards",
		Title:       "Insertion Sort with Cards",
		Description: "Insert each drawn card into the sorted hand.",
	}, games.Config{Kind: games.KindInsertion, Level: 2})
	c.add(models.Practical{
		ID:          "array-puzzle",
		Title:       "Array Puzzle",
		Description: "Sort the array with as few swaps as possible.",
	}, games.Config{Kind: games.KindArrayPuzzle, Level: 2})
	c.add(models.Practical{
		ID:          "binary-search",
		Title:       "Binary Search",
		Description: "Pick the middle of the search window until the target is found.",
	}, games.Config{Kind: games.KindBinarySearch, Level: 2})
	c.add(models.Practical{
		ID:          "stack-memory",
		Title:       "Stack Memory",
		Description: "Memorize the pushed values and pop them back in LIFO order.",
	}, games.Config{
		Kind:     games.KindStackMemory,
		Level:    1,
		Memorize: cfg.Memorize,
	})
	c.add(models.Practical{
		ID:          "queue-bus",
		Title:       "Bus Queue",
		Description: "Board passengers in arrival order before the bus leaves.",
	}, games.Config{
		Kind:      games.KindQueueBus,
		Level:     1,
		Countdown: cfg.QueueCountdown,
	})
	c.add(models.Practical{
		ID:          "tower-of-hanoi",
		Title:       "Tower of Hanoi",
		Description: "Move the tower to the last peg, never placing a larger disk on a smaller one.",
	}, games.Config{Kind: games.KindHanoi, Level: 3})
	c.add(models.Practical{
		ID:          "recursion",
		Title:       "Recursion Call Stack",
		Description: "Step through multiply(a, b) = a + multiply(a, b-1) call by call.",
	}, games.Config{Kind: games.KindRecursion, Level: 1, A: 4, B: 3})
	c.add(models.Practical{
		ID:          "cpu-scheduling",
		Title:       "CPU Scheduling",
		Description: "Build a process table and compare FCFS, SJF and SRTF schedules.",
	}, games.Config{
		Kind:      games.KindScheduling,
		Level:     1,
		Algorithm: oracle.FCFS,
		Processes: []oracle.Process{
			{ID: "P1", Arrival: 0, Burst: 5},
			{ID: "P2", Arrival: 1, Burst: 3},
			{ID: "P3", Arrival: 2, Burst: 8},
			{ID: "P4", Arrival: 3, Burst: 6},
		},
	})
	c.add(models.Practical{
		ID:          "first-fit",
		Title:       "First-Fit Memory Allocation",
		Description: "Place each request in the first free block large enough to hold it.",
	}, games.Config{
		Kind:       games.KindFirstFit,
		Level:      1,
		Partitions: []int{100, 500, 200, 300, 600},
		Requests: []games.Request{
			{PID: "P1", Size: 212},
			{PID: "P2", Size: 417},
			{PID: "P3", Size: 112},
			{PID: "P4", Size: 426},
		},
	})

	return c
}

func (c *Catalogue) add(info models.Practical, cfg games.Config) {
	info.Kind = cfg.Kind
	info.Level = cfg.Level
	c.order = append(c.order, info.ID)
	c.byID[info.ID] = practical{info: info, config: cfg}
}

// List returns the catalogue in display order.
func (c *Catalogue) List() []models.Practical {
	list := make([]models.Practical, 0, len(c.order))
	for _, id := range c.order {
		list = append(list, c.byID[id].info)
	}
	return list
}

// Get returns a practical and a private copy of its game configuration.
func (c *Catalogue) Get(id string) (models.Practical, games.Config, error) {
	p, ok := c.byID[id]
	if !ok {
		return models.Practical{}, games.Config{}, ErrPracticalNotFound
	}
	cfg := p.config
	cfg.Values = append([]int(nil), cfg.Values...)
	cfg.Processes = append([]oracle.Process(nil), cfg.Processes...)
	cfg.Partitions = append([]int(nil), cfg.Partitions...)
	cfg.Requests = append([]games.Request(nil), cfg.Requests...)
	return p.info, cfg, nil
}
