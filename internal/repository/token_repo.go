package repository

import "context"

type RegistrationTokenRepository struct {
	db DBTX
}

func NewRegistrationTokenRepository(db DBTX) *RegistrationTokenRepository {
	return &RegistrationTokenRepository{db: db}
}

// ResolveSender exchanges a one-time onboarding link token for the stable
// sender key all persistence writes are scoped to.
func (r *RegistrationTokenRepository) ResolveSender(ctx context.Context, token string) (string, error) {
	query := `
		SELECT sender
		FROM registration_tokens
		WHERE token = $1
	`
	var sender string
	if err := r.db.QueryRow(ctx, query, token).Scan(&sender); err != nil {
		return "", err
	}
	return sender, nil
}
