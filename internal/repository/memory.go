package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

type memoryRecord struct {
	game      entity.GameRecord
	expiresAt time.Time
}

type memoryGame struct {
	mu    sync.RWMutex
	games map[string]memoryRecord

	ttl time.Duration
	now func() time.Time
}

// NewMemoryGameRepository - keeps sessions in process memory; they are lost on restart.
// Like the Redis store, a session expires ttl after its last write. A ttl <= 0 keeps sessions until deleted.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return &memoryGame{
		games: make(map[string]memoryRecord),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.GameRecord) error {
	record := memoryRecord{game: *game}
	record.game.Moves = append([]int(nil), game.Moves...)

	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	if that.ttl > 0 {
		record.expiresAt = now.Add(that.ttl)
	}

	that.evictExpired(now)
	that.games[game.ID] = record

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.GameRecord, error) {
	that.mu.RLock()
	record, ok := that.games[id]
	that.mu.RUnlock()

	if !ok || record.expired(that.now()) {
		return nil, ErrGameNotFound
	}

	game := record.game
	game.Moves = append([]int(nil), record.game.Moves...)

	return &game, nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	record, ok := that.games[id]
	if !ok {
		return ErrGameNotFound
	}

	delete(that.games, id)

	if record.expired(that.now()) {
		return ErrGameNotFound
	}

	return nil
}

// evictExpired - must be called with the write lock held.
func (that *memoryGame) evictExpired(now time.Time) {
	if that.ttl <= 0 {
		return
	}

	for id, record := range that.games {
		if record.expired(now) {
			delete(that.games, id)
		}
	}
}

func (that memoryRecord) expired(now time.Time) bool {
	return !that.expiresAt.IsZero() && !now.Before(that.expiresAt)
}
