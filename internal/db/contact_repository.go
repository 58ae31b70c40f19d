package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tOgg1/parrot/internal/models"
)

// ErrSubmissionNotFound is returned when a contact submission does not exist.
var ErrSubmissionNotFound = errors.New("contact submission not found")

// ContactRepository stores contact form submissions.
type ContactRepository struct {
	db *DB
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create validates and stores a submission, assigning ID and CreatedAt when unset.
func (r *ContactRepository) Create(ctx context.Context, sub *models.ContactSubmission) error {
	if sub == nil {
		return fmt.Errorf("submission is required")
	}
	if err := sub.Validate(); err != nil {
		return err
	}
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	} else {
		sub.CreatedAt = sub.CreatedAt.UTC()
	}

	var theme *string
	if sub.Theme != "" {
		theme = &sub.Theme
	}

	return r.db.TransactionWithRetry(ctx, 0, 0, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO contact_submissions (id, name, email, message, theme, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, sub.ID, sub.Name, sub.Email, sub.Message, theme, sub.CreatedAt.Format(timestampFormat))
		if err != nil {
			return fmt.Errorf("failed to insert contact submission: %w", err)
		}
		return nil
	})
}

// Get retrieves a submission by ID.
func (r *ContactRepository) Get(ctx context.Context, id string) (*models.ContactSubmission, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, message, theme, created_at
		FROM contact_submissions WHERE id = ?
	`, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	return sub, err
}

// ListRecent returns up to limit submissions, newest first.
func (r *ContactRepository) ListRecent(ctx context.Context, limit int) ([]*models.ContactSubmission, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, message, theme, created_at
		FROM contact_submissions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact submissions: %w", err)
	}
	defer rows.Close()

	var subs []*models.ContactSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact submissions: %w", err)
	}
	return subs, nil
}

func scanSubmission(row rowScanner) (*models.ContactSubmission, error) {
	var sub models.ContactSubmission
	var theme sql.NullString
	var createdAt string

	if err := row.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Message, &theme, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan contact submission: %w", err)
	}

	sub.Theme = theme.String
	if t, err := time.Parse(timestampFormat, createdAt); err == nil {
		sub.CreatedAt = t
	}
	return &sub, nil
}
