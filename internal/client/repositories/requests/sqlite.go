package requests

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/common"
	"github.com/MacaulyV/foodbridge/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `SELECT id, donation_id, user_id, status, requested_at, snapshot FROM donation_requests`

func (r *SQLiteRepository) Insert(ctx context.Context, req *models.DonationRequest) error {
	snapshot, err := json.Marshal(req.Donation)
	if err != nil {
		return fmt.Errorf("failed to encode donation snapshot: %w", err)
	}

	query := `INSERT INTO donation_requests (id, donation_id, user_id, status, requested_at, snapshot)
			VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, req.ID, req.DonationID, req.UserID, string(req.Status), req.RequestedAt.UTC(), snapshot)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.DonationRequest, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request %s: %w", id, err)
	}
	return req, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.DonationRequest, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` WHERE user_id = ? ORDER BY requested_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select requests: %w", err)
	}
	defer rows.Close()

	result := make([]models.DonationRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		result = append(result, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}
	return result, nil
}

// FindActive returns the user's waiting or accepted request for a donation.
func (r *SQLiteRepository) FindActive(ctx context.Context, userID, donationID string) (*models.DonationRequest, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE user_id = ? AND donation_id = ? AND status IN (?, ?) LIMIT 1`,
		userID, donationID, string(models.RequestWaiting), string(models.RequestAccepted))
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	return req, nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status models.RequestStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE donation_requests SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update request %s: %w", id, err)
	}
	return dbx.RequireAffected(res)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM donation_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete request %s: %w", id, err)
	}
	return dbx.RequireAffected(res)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM donation_requests`); err != nil {
		return fmt.Errorf("failed to clear requests: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(s scanner) (*models.DonationRequest, error) {
	var (
		req         models.DonationRequest
		status      string
		requestedAt time.Time
		snapshot    []byte
	)
	if err := s.Scan(&req.ID, &req.DonationID, &req.UserID, &status, &requestedAt, &snapshot); err != nil {
		return nil, err
	}
	req.Status = models.RequestStatus(status)
	req.RequestedAt = requestedAt
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &req.Donation); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
	}
	return &req, nil
}
