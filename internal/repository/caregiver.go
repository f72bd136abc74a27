package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/aquabuddy/internal/model"
)

type CaregiverRepository interface {
	Create(contact *model.CaregiverContact) error
}

type caregiverRepository struct {
	db *sqlx.DB
}

func NewCaregiverRepository(db *sqlx.DB) CaregiverRepository {
	return &caregiverRepository{db: db}
}

func (r *caregiverRepository) Create(contact *model.CaregiverContact) error {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if contact.CreatedAt == 0 {
		contact.CreatedAt = time.Now().UnixMilli()
	}

	query := `INSERT INTO caregiver_contacts (id, email, name, message, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, contact.ID, contact.Email, contact.Name, contact.Message, contact.CreatedAt)
	return err
}
