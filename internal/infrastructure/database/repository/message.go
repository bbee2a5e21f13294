package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trustguard/internal/domain/models"
)

const messageColumns = `id, user_id, fingerprint, message_text, risk_level, confidence,
	red_flags, explanation, explanation_bn, rules_score, feedback, created_at`

// MessageRepository handles analyzed-message persistence
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create stores an analyzed message and its verdict
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO messages (id, user_id, fingerprint, message_text, risk_level,
			confidence, red_flags, explanation, explanation_bn, rules_score, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.UserID, m.Fingerprint, m.MessageText, m.RiskLevel,
		m.Confidence, m.RedFlags, m.Explanation, m.ExplanationBn,
		m.RulesScore, m.Feedback, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// HistoryFilter selects messages for the history endpoint. Exactly one of
// UserID and Fingerprint identifies the requester.
type HistoryFilter struct {
	UserID      *uuid.UUID
	Fingerprint string
	RiskLevel   *models.RiskLevel
	Limit       int
	Offset      int
}

// ListHistory returns the requester's analyzed messages, newest first
func (r *MessageRepository) ListHistory(ctx context.Context, f HistoryFilter) ([]*models.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM messages WHERE `, messageColumns)
	args := []any{}

	if f.UserID != nil {
		args = append(args, *f.UserID)
		query += fmt.Sprintf("user_id = $%d", len(args))
	} else {
		args = append(args, f.Fingerprint)
		query += fmt.Sprintf("fingerprint = $%d", len(args))
	}

	if f.RiskLevel != nil {
		args = append(args, *f.RiskLevel)
		query += fmt.Sprintf(" AND risk_level = $%d", len(args))
	}

	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m, err := r.scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// UpdateFeedback sets the feedback tag, the only mutable message field
func (r *MessageRepository) UpdateFeedback(ctx context.Context, id uuid.UUID, feedback string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE messages SET feedback = $2 WHERE id = $1`, id, feedback)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepository) scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(
		&m.ID, &m.UserID, &m.Fingerprint, &m.MessageText, &m.RiskLevel,
		&m.Confidence, &m.RedFlags, &m.Explanation, &m.ExplanationBn,
		&m.RulesScore, &m.Feedback, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}
	return &m, nil
}
