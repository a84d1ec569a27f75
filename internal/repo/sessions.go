package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tablefront/pos-finance/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

var sessionColumns = []string{
	"id", "status", "opened_by", "closed_by", "opening_cash", "closing_cash",
	"expected_cash", "cash_difference", "total_sales", "total_orders",
	"notes", "opened_at", "closed_at",
}

// InsertSession creates an open session. The partial unique index on
// register_sessions(status) WHERE status = 'open' makes the "at most one
// open session" check atomic; a violation maps to ErrOpenSessionExists.
func (r *postgresRepo) InsertSession(ctx context.Context, openedBy int64, openingCash entities.Money, notes string) (entities.RegisterSession, error) {
	query, args := r.qb.Insert("register_sessions").
		Columns("status", "opened_by", "opening_cash", "total_sales", "total_orders", "notes", "opened_at").
		Values(entities.SessionStatusOpen, openedBy, int64(openingCash), 0, 0, nullString(notes), time.Now()).
		Suffix("RETURNING " + joinColumns(sessionColumns)).
		MustSql()

	var row RegisterSession
	err := r.getContext(ctx, &row, query, args...)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return entities.RegisterSession{}, entities.ErrOpenSessionExists
	}
	if err != nil {
		return entities.RegisterSession{}, fmt.Errorf("failed to insert session: %w", err)
	}
	return SessionToEntity(row), nil
}

func (r *postgresRepo) GetSession(ctx context.Context, id int64) (entities.RegisterSession, error) {
	query, args := r.qb.Select(sessionColumns...).
		From("register_sessions").
		Where(sq.Eq{"id": id}).
		MustSql()

	var row RegisterSession
	err := r.getContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.RegisterSession{}, entities.ErrSessionNotFound
	}
	if err != nil {
		return entities.RegisterSession{}, fmt.Errorf("failed to get session: %w", err)
	}
	return SessionToEntity(row), nil
}

// GetOpenSession returns the single open session, or nil when the drawer is
// closed.
func (r *postgresRepo) GetOpenSession(ctx context.Context) (*entities.RegisterSession, error) {
	query, args := r.qb.Select(sessionColumns...).
		From("register_sessions").
		Where(sq.Eq{"status": entities.SessionStatusOpen}).
		MustSql()

	var row RegisterSession
	err := r.getContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	session := SessionToEntity(row)
	return &session, nil
}

// UpdateSession applies corrections to an open session. The UPDATE is gated
// on status = 'open' like MarkSessionClosed, so a closed session's reconciled
// figures cannot be rewritten even by a racing caller.
func (r *postgresRepo) UpdateSession(ctx context.Context, id int64, upd entities.SessionUpdate) (entities.RegisterSession, error) {
	if upd.ClosedBy == nil && upd.ClosingCash == nil && upd.ExpectedCash == nil && upd.Notes == nil {
		return r.GetSession(ctx, id)
	}

	q := r.qb.Update("register_sessions").
		Where(sq.Eq{"id": id, "status": entities.SessionStatusOpen})

	if upd.ClosedBy != nil {
		q = q.Set("closed_by", *upd.ClosedBy)
	}
	if upd.ClosingCash != nil {
		q = q.Set("closing_cash", int64(*upd.ClosingCash))
	}
	if upd.ExpectedCash != nil {
		q = q.Set("expected_cash", int64(*upd.ExpectedCash))
	}
	if upd.Notes != nil {
		q = q.Set("notes", nullString(*upd.Notes))
	}

	query, args := q.Suffix("RETURNING " + joinColumns(sessionColumns)).MustSql()

	var row RegisterSession
	err := r.getContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		// no open row with this id: either the session is closed or it
		// never existed
		if _, getErr := r.GetSession(ctx, id); getErr != nil {
			return entities.RegisterSession{}, getErr
		}
		return entities.RegisterSession{}, entities.ErrSessionAlreadyClosed
	}
	if err != nil {
		return entities.RegisterSession{}, fmt.Errorf("failed to update session: %w", err)
	}
	return SessionToEntity(row), nil
}

// MarkSessionClosed writes the computed close-out fields. Closing is gated on
// status = 'open' in the same statement, so a concurrent double-close loses
// the race cleanly instead of overwriting a closed shift.
func (r *postgresRepo) MarkSessionClosed(ctx context.Context, s entities.RegisterSession) error {
	query, args := r.qb.Update("register_sessions").
		Set("status", entities.SessionStatusClosed).
		Set("closed_by", s.ClosedBy).
		Set("closing_cash", moneyPtrToInt64(s.ClosingCash)).
		Set("expected_cash", moneyPtrToInt64(s.ExpectedCash)).
		Set("cash_difference", moneyPtrToInt64(s.CashDifference)).
		Set("total_sales", int64(s.TotalSales)).
		Set("total_orders", s.TotalOrders).
		Set("notes", nullString(s.Notes)).
		Set("closed_at", s.ClosedAt).
		Where(sq.Eq{"id": s.ID, "status": entities.SessionStatusOpen}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	if affected == 0 {
		return entities.ErrSessionAlreadyClosed
	}
	return nil
}

func moneyPtrToInt64(m *entities.Money) sql.NullInt64 {
	if m == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*m), Valid: true}
}
