package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert appends a message and fills in its generated id.
func (r *MessageRepository) Insert(ctx context.Context, m *entities.Message) error {
	var responseMs *int64
	if m.ResponseTime != nil {
		ms := m.ResponseTime.Milliseconds()
		responseMs = &ms
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO messages (company_id, client_id, text, direction, provider, response_time_ms, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, m.CompanyID, m.ClientID, m.Text, m.Direction, m.Provider, responseMs, m.Timestamp).Scan(&m.ID)
}

func scanMessage(row pgx.Row) (*entities.Message, error) {
	var m entities.Message
	var responseMs *int64
	err := row.Scan(&m.ID, &m.CompanyID, &m.ClientID, &m.Text, &m.Direction,
		&m.Provider, &responseMs, &m.Timestamp)
	if err == pgx.ErrNoRows {
		return nil, nil // Empty thread
	}
	if err != nil {
		return nil, err
	}
	if responseMs != nil {
		d := time.Duration(*responseMs) * time.Millisecond
		m.ResponseTime = &d
	}
	return &m, nil
}

const messageColumns = "id, company_id, client_id, text, direction, provider, response_time_ms, timestamp"

// LastInThread returns the newest message of a (company, client) thread.
func (r *MessageRepository) LastInThread(ctx context.Context, companyID, clientID int) (*entities.Message, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE company_id = $1 AND client_id = $2
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`, companyID, clientID)
	return scanMessage(row)
}

// History returns up to limit newest thread messages in chronological order.
func (r *MessageRepository) History(ctx context.Context, companyID, clientID, limit int) ([]entities.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE company_id = $1 AND client_id = $2
		ORDER BY timestamp DESC, id DESC
		LIMIT $3
	`, companyID, clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []entities.Message{}
	for rows.Next() {
		var m entities.Message
		var responseMs *int64
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.ClientID, &m.Text, &m.Direction,
			&m.Provider, &responseMs, &m.Timestamp); err != nil {
			return nil, err
		}
		if responseMs != nil {
			d := time.Duration(*responseMs) * time.Millisecond
			m.ResponseTime = &d
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query fetched newest-first; callers want replay order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
