package repository

import "context"

type ReferralCodeRepository struct {
	db DBTX
}

func NewReferralCodeRepository(db DBTX) *ReferralCodeRepository {
	return &ReferralCodeRepository{db: db}
}

// Exists checks a referral code against the lookup table. Validation is
// optional; an unvalidated code is still persisted verbatim.
func (r *ReferralCodeRepository) Exists(ctx context.Context, code string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM referral_codes WHERE code = $1
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
