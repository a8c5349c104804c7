package repository

import "context"

type ReminderRepository struct {
	db DBTX
}

func NewReminderRepository(db DBTX) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// SetActive flips one pre-existing reminder row, matched by sender and
// category. The backend stores the flag as "X" or NULL.
func (r *ReminderRepository) SetActive(ctx context.Context, sender, reminderType string, active bool) error {
	var flag *string
	if active {
		x := "X"
		flag = &x
	}
	query := `
		UPDATE erinnerungen
		SET active = $1
		WHERE sender = $2 AND type = $3
	`
	_, err := r.db.Exec(ctx, query, flag, sender, reminderType)
	return err
}
