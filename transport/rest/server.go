package rest

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	State() entity.Snapshot
	MakeTurn(ctx context.Context, cell int) (entity.MoveResult, entity.Snapshot, error)
	Reset(ctx context.Context) entity.Snapshot
	SetAIEnabled(ctx context.Context, enabled bool) entity.Snapshot
}

type Server struct {
	logger *slog.Logger
	game   gameUseCase

	page       *template.Template
	socketPort string
}

func New(logger *slog.Logger, game gameUseCase, socketPort string) *Server {
	return &Server{
		logger:     logger.With("component", "rest"),
		game:       game,
		page:       template.Must(template.ParseFS(static, "static/index.html")),
		socketPort: socketPort,
	}
}

// Handler returns the routes wrapped in request logging.
func (that *Server) Handler() http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/ping", that.PingHandler)
	router.GET("/", that.Index)

	router.GET("/api/game", that.GetGame)
	router.POST("/api/game/turn", that.MakeTurn)
	router.POST("/api/game/reset", that.Reset)
	router.POST("/api/game/ai", that.SetAI)

	return that.logRequests(router)
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
