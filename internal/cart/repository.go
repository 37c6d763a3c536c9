package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ftour-be/internal/logger"

	"go.uber.org/zap"
)

// SnapshotRepository persists cart snapshots keyed by session id.
type SnapshotRepository interface {
	// Load returns found=false when the session has no stored cart.
	Load(ctx context.Context, sessionID string) (snap Snapshot, found bool, err error)
	Save(ctx context.Context, sessionID string, snap Snapshot) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) SnapshotRepository {
	return &repository{db: db}
}

func (r *repository) Load(ctx context.Context, sessionID string) (Snapshot, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Load"),
		zap.String("session_id", sessionID),
	)

	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT payload
		FROM cart_snapshots
		WHERE session_id = $1
	`, sessionID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		log.Error("failed to load cart snapshot", zap.Error(err))
		return Snapshot{}, false, fmt.Errorf("%w: %w", ErrFailedLoadSnapshot, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		log.Error("failed to decode cart snapshot", zap.Error(err))
		return Snapshot{}, false, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	log.Debug("cart snapshot loaded", zap.Int("lines", len(snap.Lines)))
	return snap, true, nil
}

func (r *repository) Save(ctx context.Context, sessionID string, snap Snapshot) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Save"),
		zap.String("session_id", sessionID),
	)
	start := time.Now()

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedSaveSnapshot, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cart_snapshots (session_id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`, sessionID, payload)
	if err != nil {
		log.Error("failed to save cart snapshot",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return fmt.Errorf("%w: %w", ErrFailedSaveSnapshot, err)
	}

	log.Debug("cart snapshot saved",
		zap.Int("lines", len(snap.Lines)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
