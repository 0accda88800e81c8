package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/rocketscienceinc/dotsandboxes-backend/internal/apperror"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/board"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/entity"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/geometry"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/pkg"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/render"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// TouchResult is the game after an accepted touch and what the touch did.
type TouchResult struct {
	Game      *entity.Game    `json:"game"`
	Placement board.Placement `json:"placement"`
}

// Picture is a rendered frame and the canvas it was laid out for.
type Picture struct {
	Commands []render.Command `json:"commands"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
}

type GameManager struct {
	logger      *slog.Logger
	boardLogger *slog.Logger
	gameRepo    gameRepo

	layout entity.Layout
	style  render.Style

	now   func() time.Time
	newID func() string

	// guards every load-modify-store of a session
	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, layout entity.Layout, style render.Style) (*GameManager, error) {
	if _, err := geometry.FromLayout(layout); err != nil {
		return nil, fmt.Errorf("invalid board layout: %w", err)
	}

	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		boardLogger: logger,
		gameRepo:    gameRepo,
		layout:      layout,
		style:       style,
		now:         time.Now,
		newID:       pkg.GenerateGameID,
	}, nil
}

// NewGame starts an empty board with the configured layout; side one moves first.
func (that *GameManager) NewGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(that.newID(), that.layout, that.now().UTC())

	if err := that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	return that.getGameByID(ctx, id)
}

// Touch places the line nearest to (x, y) for the side to move.
// Rejected touches return the unchanged game together with the reason.
func (that *GameManager) Touch(ctx context.Context, id string, x, y float64) (*TouchResult, error) {
	log := that.logger.With("method", "Touch", "gameID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return &TouchResult{Game: game}, err
	}

	b, err := that.restoreBoard(game)
	if err != nil {
		return nil, err
	}

	if !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0) {
		game.LastTouch = &entity.Touch{X: x, Y: y}
	}

	placement, err := b.PlaceEdgeFromTouch(x, y)
	if err != nil {
		if !apperror.IsRejection(err) {
			return nil, fmt.Errorf("failed to place edge: %w", err)
		}

		log.Info("touch rejected", "x", x, "y", y, "reason", apperror.Reason(err))

		// the marker of the last touch is kept for the debug overlay
		if saveErr := that.updateGame(ctx, game); saveErr != nil {
			log.Error("failed to store last touch", "error", saveErr)
		}

		return &TouchResult{Game: game}, err
	}

	snapshot := b.Snapshot()
	game.Edges = snapshot.Edges
	game.Homes = snapshot.Homes
	game.Turn = snapshot.Turn
	game.UpdatedAt = that.now().UTC()

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	log.Info("edge placed", "edge", placement.Edge.String(), "side", placement.Edge.Side, "homes", len(placement.Homes))

	return &TouchResult{Game: game, Placement: placement}, nil
}

// EndGame closes a session; further touches are refused until it expires.
func (that *GameManager) EndGame(ctx context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	game.Status = entity.StatusFinished
	game.UpdatedAt = that.now().UTC()

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game finished", "gameID", id, "homes", game.HomeCount())

	return game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

// Render lists the draw calls of a game's current frame.
func (that *GameManager) Render(ctx context.Context, id string, debug bool) (*Picture, error) {
	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b, err := that.restoreBoard(game)
	if err != nil {
		return nil, err
	}

	style := that.style
	style.Debug = style.Debug || debug
	style.DotRadius = game.Layout.DotRadius

	width, height := canvasSize(game.Layout)

	return &Picture{
		Commands: render.Render(b.Grid(), render.Frame{Snapshot: b.Snapshot(), LastTouch: game.LastTouch}, style),
		Width:    width,
		Height:   height,
	}, nil
}

func (that *GameManager) restoreBoard(game *entity.Game) (*board.Board, error) {
	grid, err := geometry.FromLayout(game.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to build grid: %w", err)
	}

	b := board.New(grid,
		board.WithProximityGate(game.Layout.ProximityGate),
		board.WithLogger(that.boardLogger),
	)

	if err = b.Restore(game); err != nil {
		return nil, fmt.Errorf("failed to restore board: %w", err)
	}

	return b, nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return existingGame, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

// canvasSize mirrors the margins around the grid so a centred board fills it.
func canvasSize(layout entity.Layout) (int, int) {
	width := 2*layout.OriginX + float64(layout.Size.Columns-1)*layout.Spacing
	height := 2*layout.OriginY + float64(layout.Size.Rows-1)*layout.Spacing

	return int(math.Ceil(width)), int(math.Ceil(height))
}
