package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AnalyticsRepository struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// RebuildDay recomputes a company's rollup for one calendar day from the
// message and client tables. Safe to run once per handled turn: the upsert
// by (company_id, date) makes repeated rebuilds converge on the same row.
func (r *AnalyticsRepository) RebuildDay(ctx context.Context, companyID int, day time.Time) error {
	date := day.Format("2006-01-02")
	_, err := r.db.Exec(ctx, `
		INSERT INTO daily_analytics (
			company_id, date,
			total_users, active_users, new_users,
			total_messages, user_messages, bot_messages,
			min_response_ms, avg_response_ms, max_response_ms,
			engagement_rate, response_rate
		)
		SELECT
			$1, $2::date,
			(SELECT COUNT(*) FROM clients WHERE company_id = $1),
			(SELECT COUNT(DISTINCT client_id) FROM messages
				WHERE company_id = $1 AND timestamp::date = $2::date),
			(SELECT COUNT(*) FROM clients
				WHERE company_id = $1 AND created_at::date = $2::date),
			COUNT(*),
			COUNT(*) FILTER (WHERE direction = 'inbound'),
			COUNT(*) FILTER (WHERE direction = 'outbound'),
			MIN(response_time_ms),
			AVG(response_time_ms),
			MAX(response_time_ms),
			CASE WHEN (SELECT COUNT(*) FROM clients WHERE company_id = $1) > 0
				THEN COUNT(*)::float / (SELECT COUNT(*) FROM clients WHERE company_id = $1)
				ELSE 0 END,
			CASE WHEN COUNT(*) FILTER (WHERE direction = 'inbound') > 0
				THEN (COUNT(*) FILTER (WHERE direction = 'outbound'))::float
					/ (COUNT(*) FILTER (WHERE direction = 'inbound'))
				ELSE 0 END
		FROM messages
		WHERE company_id = $1 AND timestamp::date = $2::date
		ON CONFLICT (company_id, date) DO UPDATE SET
			total_users = EXCLUDED.total_users,
			active_users = EXCLUDED.active_users,
			new_users = EXCLUDED.new_users,
			total_messages = EXCLUDED.total_messages,
			user_messages = EXCLUDED.user_messages,
			bot_messages = EXCLUDED.bot_messages,
			min_response_ms = EXCLUDED.min_response_ms,
			avg_response_ms = EXCLUDED.avg_response_ms,
			max_response_ms = EXCLUDED.max_response_ms,
			engagement_rate = EXCLUDED.engagement_rate,
			response_rate = EXCLUDED.response_rate
	`, companyID, date)
	return err
}
