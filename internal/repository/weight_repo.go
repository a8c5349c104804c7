package repository

import "context"

type WeightLogRepository struct {
	db DBTX
}

func NewWeightLogRepository(db DBTX) *WeightLogRepository {
	return &WeightLogRepository{db: db}
}

// Insert appends a time-stamped weight entry for the sender. The log is
// append-only: onboarding retries may legitimately add a second row.
func (r *WeightLogRepository) Insert(ctx context.Context, sender string, weightKg float64) error {
	query := `
		INSERT INTO user_weights (sender, weight)
		VALUES ($1, $2)
	`
	_, err := r.db.Exec(ctx, query, sender, weightKg)
	return err
}
