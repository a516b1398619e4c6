package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/scheduler"
)

// MockScoreRepo is a mock implementation of scoreRepo
type MockScoreRepo struct {
	mock.Mock
}

func (m *MockScoreRepo) Get(ctx context.Context) (*entity.Score, error) {
	args := m.Called(ctx)
	score, _ := args.Get(0).(*entity.Score)
	return score, args.Error(1)
}

func (m *MockScoreRepo) Save(ctx context.Context, score *entity.Score) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

// manualScheduler records scheduled calls; tests decide when they run.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (that *manualScheduler) AfterFunc(delay time.Duration, fn func()) scheduler.Task {
	that.mu.Lock()
	defer that.mu.Unlock()

	task := &manualTask{delay: delay, fn: fn}
	that.tasks = append(that.tasks, task)

	return task
}

func (that *manualScheduler) last() *manualTask {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.tasks) == 0 {
		return nil
	}
	return that.tasks[len(that.tasks)-1]
}

func (that *manualScheduler) count() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.tasks)
}

func (that *manualTask) Stop() bool {
	if that.stopped || that.fired {
		return false
	}
	that.stopped = true
	return true
}

// fire runs the call the way a timer would, unless it was stopped.
func (that *manualTask) fire() {
	if that.stopped || that.fired {
		return
	}
	that.fired = true
	that.fn()
}

// fireLate runs the call even though it was stopped: the timer had already
// fired and its callback was waiting for the lock.
func (that *manualTask) fireLate() {
	that.fired = true
	that.fn()
}
