package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository/storage"
)

const (
	scoreXKey = "scoreX"
	scoreOKey = "scoreO"
)

type ScoreRepository interface {
	Get(ctx context.Context) (*entity.Score, error)
	Save(ctx context.Context, score *entity.Score) error
}

type keyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type dbScore struct {
	store keyValueStore
}

func NewScoreRepository(store keyValueStore) ScoreRepository {
	return &dbScore{
		store: store,
	}
}

// Get loads both counters. A missing, non-numeric or negative value reads as 0;
// only a failing store is reported, alongside the counters that could be read.
func (that *dbScore) Get(ctx context.Context) (*entity.Score, error) {
	x, errX := that.getCounter(ctx, scoreXKey)
	o, errO := that.getCounter(ctx, scoreOKey)

	score := &entity.Score{X: x, O: o}

	if err := errors.Join(errX, errO); err != nil {
		return score, fmt.Errorf("failed to get score: %w", err)
	}

	return score, nil
}

func (that *dbScore) Save(ctx context.Context, score *entity.Score) error {
	if err := that.store.Set(ctx, scoreXKey, strconv.Itoa(score.X)); err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}

	if err := that.store.Set(ctx, scoreOKey, strconv.Itoa(score.O)); err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}

	return nil
}

func (that *dbScore) getCounter(ctx context.Context, key string) (int, error) {
	response, err := that.store.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	return parseCounter(response), nil
}

func parseCounter(value string) int {
	counter, err := strconv.Atoi(value)
	if err != nil || counter < 0 {
		return 0
	}

	return counter
}
