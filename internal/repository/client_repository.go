package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = "id, company_id, telegram_id, username, first_name, settings, is_regular_customer, personal_discount, created_at"

func scanClient(row pgx.Row) (*entities.Client, error) {
	var c entities.Client
	err := row.Scan(&c.ID, &c.CompanyID, &c.TelegramID, &c.Username, &c.FirstName,
		&c.Settings, &c.IsRegularCustomer, &c.PersonalDiscount, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) get(ctx context.Context, companyID int, telegramID int64) (*entities.Client, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE company_id = $1 AND telegram_id = $2",
		companyID, telegramID)
	return scanClient(row)
}

// GetOrCreate resolves the client for (company, telegram id). A first
// contact creates the row with default settings; later contacts refresh the
// mutable display fields. Two concurrent first contacts race on the insert:
// the unique constraint makes the loser's INSERT a no-op and it re-fetches
// the winner's row.
func (r *ClientRepository) GetOrCreate(ctx context.Context, companyID int, telegramID int64, username, firstName, defaultLanguage string) (*entities.Client, bool, error) {
	client, err := r.get(ctx, companyID, telegramID)
	if err != nil {
		return nil, false, fmt.Errorf("client lookup: %w", err)
	}
	if client != nil {
		if client.Username != username || client.FirstName != firstName {
			_, err := r.db.Exec(ctx,
				"UPDATE clients SET username = $1, first_name = $2 WHERE id = $3",
				username, firstName, client.ID)
			if err != nil {
				return nil, false, fmt.Errorf("client update: %w", err)
			}
			client.Username = username
			client.FirstName = firstName
		}
		return client, false, nil
	}

	if defaultLanguage == "" {
		defaultLanguage = "ru"
	}
	settings := map[string]string{entities.SettingPreferredLanguage: defaultLanguage}
	row := r.db.QueryRow(ctx, `
		INSERT INTO clients (company_id, telegram_id, username, first_name, settings)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id, telegram_id) DO NOTHING
		RETURNING `+clientColumns,
		companyID, telegramID, username, firstName, settings)
	client, err = scanClient(row)
	if err != nil {
		return nil, false, fmt.Errorf("client insert: %w", err)
	}
	if client != nil {
		return client, true, nil
	}

	// Lost the creation race; the winner's row is authoritative.
	client, err = r.get(ctx, companyID, telegramID)
	if err != nil {
		return nil, false, fmt.Errorf("client re-fetch: %w", err)
	}
	if client == nil {
		return nil, false, fmt.Errorf("client vanished after insert conflict (company=%d telegram=%d)", companyID, telegramID)
	}
	return client, false, nil
}

// SetPreferredLanguage updates a single settings key, leaving the rest of
// the settings document intact.
func (r *ClientRepository) SetPreferredLanguage(ctx context.Context, clientID int, lang string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE clients
		SET settings = settings || jsonb_build_object($1::text, $2::text)
		WHERE id = $3
	`, entities.SettingPreferredLanguage, lang, clientID)
	return err
}
