package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}

	// Auto-migrate schema
	if err := client.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (p *PostgresClient) Migrate() error {
	ctx := context.Background()

	// Companies are provisioned externally; the core only reads them, but
	// owns the schema so a fresh database is usable immediately.
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS companies (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) UNIQUE NOT NULL,
			telegram_token VARCHAR(255) UNIQUE NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			policy JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("create companies table: %w", err)
	}

	// The UNIQUE(company_id, telegram_id) constraint is load-bearing:
	// concurrent first-contact webhooks rely on it to never create two
	// client rows.
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS clients (
			id SERIAL PRIMARY KEY,
			company_id INT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			telegram_id BIGINT NOT NULL,
			username VARCHAR(255) NOT NULL DEFAULT '',
			first_name VARCHAR(255) NOT NULL DEFAULT '',
			settings JSONB NOT NULL DEFAULT '{}',
			is_regular_customer BOOLEAN NOT NULL DEFAULT FALSE,
			personal_discount DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (company_id, telegram_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("create clients table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS messages (
			id SERIAL PRIMARY KEY,
			company_id INT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			client_id INT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			direction VARCHAR(10) NOT NULL,
			provider VARCHAR(50) NOT NULL DEFAULT '',
			response_time_ms BIGINT,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_messages_thread
			ON messages (company_id, client_id, timestamp DESC);
	`)
	if err != nil {
		return fmt.Errorf("create messages index: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS daily_analytics (
			id SERIAL PRIMARY KEY,
			company_id INT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			total_users INT NOT NULL DEFAULT 0,
			active_users INT NOT NULL DEFAULT 0,
			new_users INT NOT NULL DEFAULT 0,
			total_messages INT NOT NULL DEFAULT 0,
			user_messages INT NOT NULL DEFAULT 0,
			bot_messages INT NOT NULL DEFAULT 0,
			min_response_ms BIGINT,
			avg_response_ms DOUBLE PRECISION,
			max_response_ms BIGINT,
			engagement_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			response_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			UNIQUE (company_id, date)
		);
	`)
	if err != nil {
		return fmt.Errorf("create daily_analytics table: %w", err)
	}

	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
