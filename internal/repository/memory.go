package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/dotsandboxes-backend/internal/entity"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memoryGame struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	games map[string]memoryEntry
}

// NewMemoryGameRepository keeps sessions in process memory with the same
// expiry rules as the redis store. Games are copied in and out.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return &memoryGame{
		ttl:   ttl,
		now:   time.Now,
		games: make(map[string]memoryEntry),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	entry := memoryEntry{data: gameJSON}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}
	that.games[game.ID] = entry

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	entry, ok := that.lookup(id)
	that.mu.Unlock()

	if !ok {
		return nil, ErrGameNotFound
	}

	var existingGame entity.Game
	if err := json.Unmarshal(entry.data, &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookup(id); !ok {
		return ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

// lookup drops expired entries. Caller holds mu.
func (that *memoryGame) lookup(id string) (memoryEntry, bool) {
	entry, ok := that.games[id]
	if !ok {
		return memoryEntry{}, false
	}

	if !entry.expiresAt.IsZero() && !that.now().Before(entry.expiresAt) {
		delete(that.games, id)
		return memoryEntry{}, false
	}

	return entry, true
}
