package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-local/internal/service"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
)

const (
	eventReset = "reset"

	subscriberBuffer = 16
	saveTimeout      = 5 * time.Second
)

type scoreRepo interface {
	Get(ctx context.Context) (*entity.Score, error)
	Save(ctx context.Context, score *entity.Score) error
}

type Options struct {
	AIEnabled bool
	AIDelay   time.Duration
}

// GameManager serializes every operation on the single game, persists the
// score after decisive games and plays the computer's turn after a delay.
type GameManager struct {
	logger    *slog.Logger
	scoreRepo scoreRepo
	scheduler scheduler.Scheduler
	aiDelay   time.Duration

	mu         sync.Mutex
	controller *tictactoe.GameController
	pendingAI  scheduler.Task
	round      uint64
	lastEvent  string

	subscribersMu sync.RWMutex
	subscribers   map[string]chan entity.Snapshot
}

func NewGameManager(
	ctx context.Context,
	logger *slog.Logger,
	scoreRepo scoreRepo,
	sched scheduler.Scheduler,
	bot service.BotService,
	opts Options,
) *GameManager {
	log := logger.With("component", "game_manager")

	score, err := scoreRepo.Get(ctx)
	if err != nil {
		log.Warn("could not load score, unreadable counters start at zero", "error", err)
	}
	if score == nil {
		score = &entity.Score{}
	}

	log.Info("score loaded", "x", score.X, "o", score.O)

	return &GameManager{
		logger:      log,
		scoreRepo:   scoreRepo,
		scheduler:   sched,
		aiDelay:     opts.AIDelay,
		controller:  tictactoe.NewGameController(*score, opts.AIEnabled, bot),
		subscribers: make(map[string]chan entity.Snapshot),
	}
}

// MakeTurn plays cell for the current player. A rejected move changes nothing
// and is not broadcast.
func (that *GameManager) MakeTurn(ctx context.Context, cell int) (entity.MoveResult, entity.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	result, err := that.controller.ApplyMove(cell)
	if err != nil {
		that.logger.Debug("move rejected", "cell", cell, "error", err)
		return result, that.snapshotLocked(), err
	}

	that.afterMoveLocked(ctx, result)

	return result, that.snapshotLocked(), nil
}

// Reset starts a new game and drops any computer move still waiting to run.
func (that *GameManager) Reset(_ context.Context) entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelAILocked()
	that.controller.Reset()
	that.lastEvent = eventReset

	that.logger.Info("game reset")

	snapshot := that.snapshotLocked()
	that.broadcast(snapshot)

	return snapshot
}

func (that *GameManager) SetAIEnabled(_ context.Context, enabled bool) entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.controller.SetAIEnabled(enabled)

	if enabled {
		that.maybeScheduleAILocked()
	} else {
		that.cancelAILocked()
	}

	that.logger.Info("computer opponent toggled", "enabled", enabled)

	snapshot := that.snapshotLocked()
	that.broadcast(snapshot)

	return snapshot
}

func (that *GameManager) State() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every state change.
func (that *GameManager) Subscribe() (string, <-chan entity.Snapshot) {
	id := uuid.NewString()
	updates := make(chan entity.Snapshot, subscriberBuffer)

	that.subscribersMu.Lock()
	that.subscribers[id] = updates
	that.subscribersMu.Unlock()

	return id, updates
}

func (that *GameManager) Unsubscribe(id string) {
	that.subscribersMu.Lock()
	defer that.subscribersMu.Unlock()

	if updates, ok := that.subscribers[id]; ok {
		delete(that.subscribers, id)
		close(updates)
	}
}

// Close cancels a pending computer move.
func (that *GameManager) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelAILocked()
}

func (that *GameManager) afterMoveLocked(ctx context.Context, result entity.MoveResult) {
	that.lastEvent = result.Event()

	// a human answered for O before the computer did
	if that.pendingAI != nil {
		that.cancelAILocked()
	}

	log := that.logger.With("cell", result.Cell, "player", result.Player, "outcome", result.Outcome)
	log.Debug("move applied")

	switch result.Outcome {
	case entity.OutcomeWin:
		score := that.controller.Score()
		log.Info("game won", "wins", score.WinsOf(result.Player))
	case entity.OutcomeTie:
		log.Info("game tied")
	}

	if result.ScoreChanged {
		that.saveScoreLocked(ctx)
	}

	if !result.IsTerminal() {
		that.maybeScheduleAILocked()
	}

	that.broadcast(that.snapshotLocked())
}

func (that *GameManager) saveScoreLocked(ctx context.Context) {
	score := that.controller.Score()

	if err := that.scoreRepo.Save(ctx, &score); err != nil {
		that.logger.Error("could not save score", "error", err)
	}
}

func (that *GameManager) maybeScheduleAILocked() {
	game := that.controller.Game()
	if !game.IsOngoing() || !game.AIEnabled || game.Turn != entity.PlayerO || that.pendingAI != nil {
		return
	}

	that.cancelAILocked()

	round := that.round
	that.pendingAI = that.scheduler.AfterFunc(that.aiDelay, func() {
		that.playAI(round)
	})
}

// cancelAILocked stops the pending computer move and invalidates any callback
// that already fired but has not taken the lock yet.
func (that *GameManager) cancelAILocked() {
	if that.pendingAI != nil {
		that.pendingAI.Stop()
		that.pendingAI = nil
	}
	that.round++
}

func (that *GameManager) playAI(round uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if round != that.round {
		that.logger.Debug("stale computer move discarded")
		return
	}
	that.pendingAI = nil

	result, err := that.controller.RequestAIMove()
	if err != nil {
		that.logger.Debug("computer move rejected", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	that.afterMoveLocked(ctx, result)
}

func (that *GameManager) snapshotLocked() entity.Snapshot {
	return entity.NewSnapshot(that.controller.Game(), that.controller.Score(), that.lastEvent)
}

func (that *GameManager) broadcast(snapshot entity.Snapshot) {
	that.subscribersMu.RLock()
	defer that.subscribersMu.RUnlock()

	for id, updates := range that.subscribers {
		select {
		case updates <- snapshot:
		default:
			that.logger.Warn("subscriber is not keeping up, update dropped", "subscriber", id)
		}
	}
}
