package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/aquabuddy/internal/model"
)

var (
	ErrNotificationNotFound = errors.New("scheduled notification not found")
)

type NotificationRepository interface {
	Create(n *model.ScheduledNotification) error
	ByID(id string) (*model.ScheduledNotification, error)
	Due(now time.Time, limit int) ([]*model.ScheduledNotification, error)
	MarkSent(ids []string, sentAt time.Time) error
	DeleteSentBefore(cutoff time.Time, limit int) (int, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *model.ScheduledNotification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt == 0 {
		n.CreatedAt = time.Now().UnixMilli()
	}

	query := `INSERT INTO scheduled_notifications (id, token, title, message, scheduled_time, sent, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		n.ID,
		n.Token,
		n.Title,
		n.Message,
		n.ScheduledTime,
		false,
		n.CreatedAt,
	)

	return err
}

func (r *notificationRepository) ByID(id string) (*model.ScheduledNotification, error) {
	n := &model.ScheduledNotification{}
	query := `SELECT * FROM scheduled_notifications WHERE id = $1`

	err := r.db.Get(n, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}

	return n, nil
}

// Due returns up to limit unsent entries whose scheduled time has passed.
func (r *notificationRepository) Due(now time.Time, limit int) ([]*model.ScheduledNotification, error) {
	var due []*model.ScheduledNotification
	query := `SELECT * FROM scheduled_notifications
	          WHERE sent = $1 AND scheduled_time <= $2
	          ORDER BY scheduled_time ASC
	          LIMIT $3`

	err := r.db.Select(&due, query, false, now.UnixMilli(), limit)
	if err != nil {
		return nil, err
	}

	return due, nil
}

// MarkSent flags every id as sent in a single transaction.
// Rows already sent keep their original sent_at.
func (r *notificationRepository) MarkSent(ids []string, sentAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE scheduled_notifications
	          SET sent = $1, sent_at = $2
	          WHERE id = $3 AND sent = $4`

	ts := sentAt.UnixMilli()
	for _, id := range ids {
		_, err := tx.Exec(query, true, ts, id, false)
		if err != nil {
			return fmt.Errorf("failed to mark notification %s sent: %w", id, err)
		}
	}

	return tx.Commit()
}

// DeleteSentBefore removes up to limit sent entries with sent_at before cutoff.
func (r *notificationRepository) DeleteSentBefore(cutoff time.Time, limit int) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `DELETE FROM scheduled_notifications
	          WHERE id IN (
	              SELECT id FROM scheduled_notifications
	              WHERE sent = $1 AND sent_at < $2
	              LIMIT $3
	          )`

	result, err := tx.Exec(query, true, cutoff.UnixMilli(), limit)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}
