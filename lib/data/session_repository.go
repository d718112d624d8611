package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// SessionRepository is a small key/value store scoped to one signed-in subject
type SessionRepository interface {
	GetItem(ctx context.Context, subject, key string) (string, bool, error)
	SetItem(ctx context.Context, subject, key, value string) error
	RemoveItem(ctx context.Context, subject, key string) error
}

// SessionDao implements SessionRepository on the session.items table
type SessionDao struct {
	DB     *sql.DB
	Logger *logrus.Logger
}

// NewSessionDao creates a new instance of SessionDao
func NewSessionDao(db *sql.DB, logger *logrus.Logger) SessionRepository {
	return &SessionDao{
		DB:     db,
		Logger: logger,
	}
}

func (dao *SessionDao) GetItem(ctx context.Context, subject, key string) (string, bool, error) {
	var value string
	err := dao.DB.QueryRowContext(ctx, `
		SELECT item_value
		FROM session.items
		WHERE subject = $1 AND item_key = $2
	`, subject, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"operation": "GetItem",
			"subject":   subject,
			"item_key":  key,
			"error":     err.Error(),
		}).Error("Failed to read session item")
		return "", false, fmt.Errorf("failed to read session item %s: %w", key, err)
	}

	return value, true, nil
}

func (dao *SessionDao) SetItem(ctx context.Context, subject, key, value string) error {
	_, err := dao.DB.ExecContext(ctx, `
		INSERT INTO session.items (subject, item_key, item_value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (subject, item_key)
		DO UPDATE SET item_value = EXCLUDED.item_value, updated_at = NOW()
	`, subject, key, value)

	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"operation": "SetItem",
			"subject":   subject,
			"item_key":  key,
			"error":     err.Error(),
		}).Error("Failed to write session item")
		return fmt.Errorf("failed to write session item %s: %w", key, err)
	}

	return nil
}

func (dao *SessionDao) RemoveItem(ctx context.Context, subject, key string) error {
	result, err := dao.DB.ExecContext(ctx, `
		DELETE FROM session.items
		WHERE subject = $1 AND item_key = $2
	`, subject, key)

	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"operation": "RemoveItem",
			"subject":   subject,
			"item_key":  key,
			"error":     err.Error(),
		}).Error("Failed to remove session item")
		return fmt.Errorf("failed to remove session item %s: %w", key, err)
	}

	rowsAffected, _ := result.RowsAffected()
	dao.Logger.WithFields(logrus.Fields{
		"operation": "RemoveItem",
		"subject":   subject,
		"item_key":  key,
		"removed":   rowsAffected,
	}).Debug("Removed session item")

	return nil
}
