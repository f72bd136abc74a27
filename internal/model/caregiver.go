package model

type CaregiverContact struct {
	ID        string `db:"id"`
	Email     string `db:"email"`
	Name      string `db:"name"`
	Message   string `db:"message"`
	CreatedAt int64  `db:"created_at"`
}
