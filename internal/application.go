package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/dotsandboxes-backend/internal/config"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/entity"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/geometry"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/render"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/repository"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/repository/storage"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/usecase"
	"github.com/rocketscienceinc/dotsandboxes-backend/transport/rest"
	"github.com/rocketscienceinc/dotsandboxes-backend/transport/websocket"
)

var (
	ErrAddrNotFound       = errors.New("redis host or port is empty")
	ErrUnknownStorageType = errors.New("unknown storage driver")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	gameRepo, closeRepo, err := newGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeRepo(); err != nil {
			log.Error("could not close game storage", "error", err)
		}
	}()

	layout, err := boardLayout(conf)
	if err != nil {
		return err
	}

	log.Info("Board layout", "columns", layout.Size.Columns, "rows", layout.Size.Rows,
		"spacing", layout.Spacing, "originX", layout.OriginX, "originY", layout.OriginY)

	gameUseCase, err := usecase.NewGameManager(logger, gameRepo, layout, renderStyle(conf))
	if err != nil {
		return fmt.Errorf("could not create game manager: %w", err)
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		httpServer := rest.New(logger, gameUseCase)
		if httpErr := httpServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newGameRepository - picks the game storage named in the config.
func newGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, func() error, error) {
	switch conf.Storage.Driver {
	case config.StorageMemory:
		return repository.NewMemoryGameRepository(conf.Storage.SessionTTL), func() error { return nil }, nil
	case config.StorageRedis:
		if conf.Redis.Host == "" || conf.Redis.Port == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewGameRepository(redisStorage, conf.Storage.SessionTTL), redisStorage.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorageType, conf.Storage.Driver)
	}
}

// boardLayout - centers the configured grid on the configured screen.
func boardLayout(conf *config.Config) (entity.Layout, error) {
	size := entity.GridSize{Columns: conf.Board.Columns, Rows: conf.Board.Rows}

	grid, err := geometry.Centered(size, conf.Board.Spacing, conf.Board.ScreenWidth, conf.Board.ScreenHeight)
	if err != nil {
		return entity.Layout{}, fmt.Errorf("invalid board config: %w", err)
	}

	return entity.Layout{
		Size:          grid.Size(),
		Spacing:       grid.Spacing(),
		OriginX:       grid.Origin().X,
		OriginY:       grid.Origin().Y,
		DotRadius:     conf.Board.DotRadius,
		ProximityGate: !conf.Board.DisableProximityGate,
	}, nil
}

func renderStyle(conf *config.Config) render.Style {
	style := render.DefaultStyle()

	style.Background = conf.Style.Background
	style.DotColor = conf.Style.DotColor
	style.SideColors = map[entity.Side]string{
		entity.SideOne: conf.Style.SideOne,
		entity.SideTwo: conf.Style.SideTwo,
	}
	style.LineWidth = conf.Style.LineWidth
	style.HomeRadius = conf.Style.HomeRadius
	style.Debug = conf.Style.Debug

	return style
}
