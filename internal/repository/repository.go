package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/BerylCAtieno/claim-appeal-api/internal/models"
)

type Repository interface {
	Create(ctx context.Context, appeal *models.Appeal) error
	GetByID(ctx context.Context, id string) (*models.Appeal, error)
	ListRecent(ctx context.Context, limit int) ([]models.Appeal, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, appeal *models.Appeal) error {
	query := `
		INSERT INTO appeals (id, patient_name, model, letter, latency_ms, eob_key, medical_key, denial_key, letter_key, created_at)
		VALUES (:id, :patient_name, :model, :letter, :latency_ms, :eob_key, :medical_key, :denial_key, :letter_key, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, appeal)
	return err
}

// GetByID returns nil, nil when no appeal has the id.
func (r *repository) GetByID(ctx context.Context, id string) (*models.Appeal, error) {
	var appeal models.Appeal

	query := `
		SELECT id, patient_name, model, letter, latency_ms, eob_key, medical_key, denial_key, letter_key, created_at
		FROM appeals
		WHERE id = ?
	`

	err := r.db.GetContext(ctx, &appeal, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &appeal, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.Appeal, error) {
	appeals := []models.Appeal{}

	query := `
		SELECT id, patient_name, model, letter, latency_ms, eob_key, medical_key, denial_key, letter_key, created_at
		FROM appeals
		ORDER BY created_at DESC
		LIMIT ?
	`

	if err := r.db.SelectContext(ctx, &appeals, query, limit); err != nil {
		return nil, err
	}
	return appeals, nil
}
