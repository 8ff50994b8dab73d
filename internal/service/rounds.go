package service

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cs-practicals/algosim/internal/games"
	"github.com/cs-practicals/algosim/internal/models"
	"github.com/cs-practicals/algosim/internal/sim"
	"github.com/cs-practicals/algosim/internal/storage"
	"github.com/cs-practicals/algosim/pkg/logger"
)

// ErrRoundNotFound is returned for an unknown or discarded round id.
var ErrRoundNotFound = errors.New("round not found")

const (
	saveTimeout = 5 * time.Second
	saveQueue   = 64
)

// Publisher receives round events. Implementations must not block.
type Publisher interface {
	Publish(roundID string, event models.Event)
}

type round struct {
	id          string
	practicalID string
	seed        int64
	level       int
	startedAt   time.Time
	game        games.Game
}

// RoundService mounts games for practicals and records their completion
// scores. Live rounds are held in memory only.
type RoundService struct {
	catalogue   *Catalogue
	results     storage.ResultRepository
	publisher   Publisher
	scheduler   sim.Scheduler
	defaultSeed int64
	logger      *logger.Logger

	mu     sync.RWMutex
	rounds map[string]*round
	closed bool

	// Completions hand their results to a single writer so a slow
	// backend never holds up the scheduler goroutine.
	saves chan *models.Result
	saved chan struct{}
}

// NewRoundService creates a round service. All rounds share scheduler,
// so their timers fire one at a time in due order.
func NewRoundService(
	catalogue *Catalogue,
	results storage.ResultRepository,
	publisher Publisher,
	scheduler sim.Scheduler,
	defaultSeed int64,
	log *logger.Logger,
) *RoundService {
	s := &RoundService{
		catalogue:   catalogue,
		results:     results,
		publisher:   publisher,
		scheduler:   scheduler,
		defaultSeed: defaultSeed,
		logger:      log,
		rounds:      make(map[string]*round),
		saves:       make(chan *models.Result, saveQueue),
		saved:       make(chan struct{}),
	}
	go s.saveLoop()
	return s
}

// Practicals returns the catalogue.
func (s *RoundService) Practicals() []models.Practical {
	return s.catalogue.List()
}

// StartRound mounts a fresh game for the practical and starts it.
func (s *RoundService) StartRound(ctx context.Context, practicalID string, req models.StartRoundRequest) (*models.RoundResponse, error) {
	_, cfg, err := s.catalogue.Get(practicalID)
	if err != nil {
		return nil, err
	}

	if limit := games.LevelLimit(cfg.Kind); req.Level < 0 || req.Level > limit {
		return nil, sim.Invalid(fmt.Sprintf("level must be between 1 and %d, got %d", limit, req.Level))
	}
	if req.Level > 0 {
		cfg.Level = req.Level
	}
	cfg.Seed = s.seed(req.Seed)

	r := &round{
		id:          uuid.New().String(),
		practicalID: practicalID,
		seed:        cfg.Seed,
		level:       cfg.Level,
		startedAt:   time.Now().UTC(),
	}

	game, err := games.New(cfg, sim.Options{
		Scheduler:  s.scheduler,
		Notifier:   s.notifier(r.id),
		OnComplete: func(score int) { s.complete(r, score) },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mount game: %w", err)
	}
	r.game = game

	s.mu.Lock()
	s.rounds[r.id] = r
	s.mu.Unlock()

	game.Start()
	s.logger.Info("Round started",
		logger.F("round_id", r.id),
		logger.F("practical_id", practicalID),
		logger.F("seed", strconv.FormatInt(r.seed, 10)),
		logger.F("level", strconv.Itoa(r.level)))

	return r.response(), nil
}

// GetRound returns a snapshot of a live round.
func (s *RoundService) GetRound(ctx context.Context, roundID string) (*models.RoundResponse, error) {
	r, err := s.round(roundID)
	if err != nil {
		return nil, err
	}
	return r.response(), nil
}

// Act forwards one action to the round's game and returns the new snapshot.
func (s *RoundService) Act(ctx context.Context, roundID string, action json.RawMessage) (*models.RoundResponse, error) {
	r, err := s.round(roundID)
	if err != nil {
		return nil, err
	}
	if err := r.game.Act(action); err != nil {
		return nil, err
	}
	return r.response(), nil
}

// Reset starts a new round in place. Timers of the previous round are
// dropped by the game.
func (s *RoundService) Reset(ctx context.Context, roundID string) (*models.RoundResponse, error) {
	r, err := s.round(roundID)
	if err != nil {
		return nil, err
	}
	r.game.Start()
	s.logger.Debug("Round reset", logger.F("round_id", roundID))
	return r.response(), nil
}

// Discard stops a round and forgets it.
func (s *RoundService) Discard(ctx context.Context, roundID string) error {
	s.mu.Lock()
	r, ok := s.rounds[roundID]
	delete(s.rounds, roundID)
	s.mu.Unlock()

	if !ok {
		return ErrRoundNotFound
	}
	r.game.Stop()
	s.logger.Debug("Round discarded", logger.F("round_id", roundID))
	return nil
}

// Results lists a practical's recorded scores, newest first.
func (s *RoundService) Results(ctx context.Context, practicalID string, limit int) ([]*models.Result, error) {
	if _, _, err := s.catalogue.Get(practicalID); err != nil {
		return nil, err
	}
	results, err := s.results.ListResults(ctx, practicalID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

// Close stops every live round and waits for queued results to be saved.
// It is safe to call more than once.
func (s *RoundService) Close() {
	s.mu.Lock()
	rounds := s.rounds
	s.rounds = make(map[string]*round)
	wasClosed := s.closed
	s.closed = true
	s.mu.Unlock()

	for _, r := range rounds {
		r.game.Stop()
	}
	if !wasClosed {
		close(s.saves)
	}
	<-s.saved
}

func (s *RoundService) round(roundID string) (*round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rounds[roundID]
	if !ok {
		return nil, ErrRoundNotFound
	}
	return r, nil
}

func (s *RoundService) seed(requested *int64) int64 {
	if requested != nil {
		return *requested
	}
	if s.defaultSeed != 0 {
		return s.defaultSeed
	}
	id := uuid.New()
	return int64(binary.BigEndian.Uint64(id[:8]))
}

func (s *RoundService) notifier(roundID string) sim.Notifier {
	return sim.NotifierFunc(func(kind sim.Kind, message string) {
		s.publisher.Publish(roundID, models.Event{
			Type:    models.EventNotice,
			RoundID: roundID,
			Kind:    string(kind),
			Message: message,
			At:      time.Now().UTC(),
		})
	})
}

// complete records the score reported by a finished round. It runs
// after the game released its lock, so the snapshot is safe to take.
// It may run on the scheduler goroutine and must not block.
func (s *RoundService) complete(r *round, score int) {
	view := r.game.View()
	result := &models.Result{
		ID:          uuid.New().String(),
		PracticalID: r.practicalID,
		RoundID:     r.id,
		Kind:        view.Kind,
		Score:       score,
		Moves:       view.Ledger.Moves,
		Level:       view.Ledger.Level,
		ElapsedMs:   view.Ledger.Elapsed.Milliseconds(),
		Seed:        r.seed,
		CompletedAt: time.Now().UTC(),
	}

	s.enqueue(result)

	s.publisher.Publish(r.id, models.Event{
		Type:    models.EventComplete,
		RoundID: r.id,
		Kind:    string(view.Kind),
		Score:   &score,
		At:      result.CompletedAt,
	})
}

func (s *RoundService) enqueue(result *models.Result) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.logger.Warn("Result dropped after shutdown", logger.F("round_id", result.RoundID))
		return
	}
	select {
	case s.saves <- result:
	default:
		s.logger.Error("Result queue full, dropping result",
			logger.F("round_id", result.RoundID),
			logger.F("practical_id", result.PracticalID))
	}
}

func (s *RoundService) saveLoop() {
	defer close(s.saved)
	for result := range s.saves {
		s.save(result)
	}
}

func (s *RoundService) save(result *models.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := s.results.SaveResult(ctx, result); err != nil {
		s.logger.Error("Failed to save result",
			logger.F("round_id", result.RoundID),
			logger.F("error", err.Error()))
		return
	}
	s.logger.Info("Round completed",
		logger.F("round_id", result.RoundID),
		logger.F("practical_id", result.PracticalID),
		logger.F("score", strconv.Itoa(result.Score)))
}

func (r *round) response() *models.RoundResponse {
	return &models.RoundResponse{
		ID:          r.id,
		PracticalID: r.practicalID,
		Seed:        r.seed,
		StartedAt:   r.startedAt,
		View:        r.game.View(),
	}
}
