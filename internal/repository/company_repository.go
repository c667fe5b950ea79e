package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hearmic/chatbot-mvp/internal/entities"
)

type CompanyRepository struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// GetByToken looks up a company by its inbound webhook token.
func (r *CompanyRepository) GetByToken(ctx context.Context, token string) (*entities.Company, error) {
	var c entities.Company
	err := r.db.QueryRow(ctx,
		"SELECT id, name, telegram_token, is_active, policy FROM companies WHERE telegram_token = $1",
		token).Scan(&c.ID, &c.Name, &c.TelegramToken, &c.IsActive, &c.Policy)

	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
