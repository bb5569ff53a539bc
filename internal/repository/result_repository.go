package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"readum/internal/domain"
	"readum/internal/logger"
	"readum/internal/repository/models"
	"readum/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	upsertResultQuery = `MERGE INTO readum_results r
	USING (SELECT :1 AS id FROM dual) src
	ON (r.id = src.id)
	WHEN MATCHED THEN
		UPDATE SET r.payload = :2, r.expires_at = :3
	WHEN NOT MATCHED THEN
		INSERT (id, payload, created_at, expires_at) VALUES (:4, :5, :6, :7)`

	selectResultQuery = `SELECT
		id "id",
		payload "payload",
		created_at "created_at",
		expires_at "expires_at"
	FROM readum_results
	WHERE id = :1`

	purgeResultsQuery = `DELETE FROM readum_results WHERE expires_at IS NOT NULL AND expires_at <= :1`
)

// ResultRepository stores result blobs in Oracle.
type ResultRepository struct {
	db  DBTX
	ttl time.Duration
	now func() time.Time
}

var _ domain.ResultStore = (*ResultRepository)(nil)

// NewResultRepository keeps rows for ttl; a zero ttl keeps them forever.
func NewResultRepository(db *sqlx.DB, ttl time.Duration) *ResultRepository {
	return &ResultRepository{db: db, ttl: ttl, now: time.Now}
}

func (r *ResultRepository) Put(ctx context.Context, key string, blob []byte) error {
	now := r.now().UTC()
	expires := util.ExpiryToNullTime(now, r.ttl)
	payload := string(blob)

	_, err := r.db.ExecContext(ctx, upsertResultQuery,
		key, payload, expires,
		key, payload, now, expires,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert result %s: %w", key, err)
	}
	return nil
}

func (r *ResultRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var row models.Result
	err := r.db.GetContext(ctx, &row, selectResultQuery, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result %s: %w", key, err)
	}
	if row.Expired(r.now()) {
		return nil, domain.ErrResultNotFound
	}
	return []byte(row.Payload), nil
}

// PurgeExpired deletes every row whose expiry has passed.
func (r *ResultRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeResultsQuery, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired results: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// RunPurger calls PurgeExpired every interval until ctx is done.
func (r *ResultRepository) RunPurger(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.PurgeExpired(ctx)
			if err != nil {
				logger.Get().Warn("result purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Get().Info("purged expired results", zap.Int64("rows", n))
			}
		}
	}
}
