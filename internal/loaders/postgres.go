package loaders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VitalSync/health-ingestor/internal/types"
	"github.com/VitalSync/health-ingestor/internal/utils"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// PostgresClient wraps the shared connection pool for the health_data store.
type PostgresClient struct {
	pool *pgxpool.Pool
}

func NewPostgresClient(ctx context.Context, databaseURL string, poolSize int) (*PostgresClient, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if poolSize > 0 {
		cfg.MaxConns = int32(poolSize)
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresClient{pool: pool}, nil
}

func (c *PostgresClient) Close() {
	c.pool.Close()
}

// EnsureSchema creates the health_data table if it does not exist. The unique
// index on (user_id, date) is the conflict target the upsert path declares.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS health_data (
			id          BIGSERIAL PRIMARY KEY,
			user_id     UUID         NOT NULL,
			date        DATE         NOT NULL,
			steps       INTEGER      NOT NULL,
			heart_rate  INTEGER      NOT NULL,
			sleep_hours NUMERIC(4,2) NOT NULL,
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT now(),
			UNIQUE (user_id, date)
		)`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure health_data schema: %w", err)
	}
	return nil
}

// UpsertHealthRecords writes records keyed by (user_id, date), overwriting on
// conflict. The whole batch goes in one statement so atomicity is the store's.
func (c *PostgresClient) UpsertHealthRecords(ctx context.Context, userID string, records []types.HealthRecord) error {
	if len(records) == 0 {
		return nil
	}

	query, args := buildInsert(userID, records)
	query += ` ON CONFLICT (user_id, date) DO UPDATE SET
		steps = EXCLUDED.steps,
		heart_rate = EXCLUDED.heart_rate,
		sleep_hours = EXCLUDED.sleep_hours`

	tag, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("upsert health_data: %w", err)
	}

	utils.Zlog.Debug("Upserted health records",
		zap.String("userId", userID),
		zap.Int64("affected", tag.RowsAffected()))
	return nil
}

// InsertHealthRecords writes records with no conflict handling.
func (c *PostgresClient) InsertHealthRecords(ctx context.Context, userID string, records []types.HealthRecord) error {
	if len(records) == 0 {
		return nil
	}

	query, args := buildInsert(userID, records)
	tag, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert health_data: %w", err)
	}

	utils.Zlog.Debug("Inserted health records",
		zap.String("userId", userID),
		zap.Int64("affected", tag.RowsAffected()))
	return nil
}

// ListHealthRecords returns one user's records on or after the since date
// (ISO YYYY-MM-DD), ordered by date ascending.
func (c *PostgresClient) ListHealthRecords(ctx context.Context, userID string, since string) ([]types.HealthRecord, error) {
	const query = `
		SELECT date::text, steps, heart_rate, sleep_hours::float8
		FROM health_data
		WHERE user_id = $1 AND date >= $2
		ORDER BY date ASC, id ASC`

	rows, err := c.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list health_data: %w", err)
	}
	defer rows.Close()

	var out []types.HealthRecord
	for rows.Next() {
		var r types.HealthRecord
		if err := rows.Scan(&r.Date, &r.Steps, &r.HeartRate, &r.SleepHours); err != nil {
			return nil, fmt.Errorf("scan health_data row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate health_data rows: %w", err)
	}
	return out, nil
}

// buildInsert assembles a multi-row INSERT for one user's batch.
func buildInsert(userID string, records []types.HealthRecord) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO health_data (user_id, date, steps, heart_rate, sleep_hours) VALUES `)

	args := make([]any, 0, len(records)*5)
	for i, r := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 5
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5))
		args = append(args, userID, r.Date, r.Steps, r.HeartRate, r.SleepHours)
	}
	return sb.String(), args
}
