package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/Houeta/rentcatalog/internal/repository"
)

// SaveSession stores or replaces the credential of a chat.
func (r *Repository) SaveSession(ctx context.Context, session models.ChatSession) error {
	const opn = "repository.sqlite.SaveSession"
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (chat_id, token, owner_id) VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			token = excluded.token,
			owner_id = excluded.owner_id,
			updated_at = CURRENT_TIMESTAMP`,
		session.ChatID, session.Token, session.OwnerID)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// GetSession returns the credential of a chat or repository.ErrSessionNotFound.
func (r *Repository) GetSession(ctx context.Context, chatID int64) (*models.ChatSession, error) {
	const opn = "repository.sqlite.GetSession"

	session := models.ChatSession{ChatID: chatID}
	err := r.db.QueryRowContext(ctx,
		"SELECT token, owner_id FROM chat_sessions WHERE chat_id = ?", chatID,
	).Scan(&session.Token, &session.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return &session, nil
}

// DeleteSession forgets the credential of a chat.
func (r *Repository) DeleteSession(ctx context.Context, chatID int64) error {
	const opn = "repository.sqlite.DeleteSession"
	_, err := r.db.ExecContext(ctx, "DELETE FROM chat_sessions WHERE chat_id = ?", chatID)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// ListSessions returns every stored chat credential.
func (r *Repository) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	const opn = "repository.sqlite.ListSessions"
	rows, err := r.db.QueryContext(ctx, "SELECT chat_id, token, owner_id FROM chat_sessions ORDER BY chat_id")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var sessions []models.ChatSession
	for rows.Next() {
		var s models.ChatSession
		if err = rows.Scan(&s.ChatID, &s.Token, &s.OwnerID); err != nil {
			return nil, fmt.Errorf("%s: failed to scan session: %w", opn, err)
		}
		sessions = append(sessions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return sessions, nil
}
