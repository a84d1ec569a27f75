package repo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// UserExists checks the users table managed by the staff-administration
// service; this core only ever references users, never mutates them.
func (r *postgresRepo) UserExists(ctx context.Context, userID int64) (bool, error) {
	query, args := r.qb.Select("1").
		From("users").
		Where(sq.Eq{"id": userID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		MustSql()

	var exists bool
	if err := r.getContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}
