package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tablefront/pos-finance/internal/entities"
	"github.com/tablefront/pos-finance/internal/finance"
	"github.com/tablefront/pos-finance/pkg/trm"
)

type SessionRepo interface {
	// InsertSession must reject a second open session atomically at the
	// storage layer, not by read-then-write.
	InsertSession(ctx context.Context, openedBy int64, openingCash entities.Money, notes string) (entities.RegisterSession, error)
	GetSession(ctx context.Context, id int64) (entities.RegisterSession, error)
	GetOpenSession(ctx context.Context) (*entities.RegisterSession, error)
	UpdateSession(ctx context.Context, id int64, upd entities.SessionUpdate) (entities.RegisterSession, error)
	MarkSessionClosed(ctx context.Context, s entities.RegisterSession) error

	CompletedOrdersBySession(ctx context.Context, sessionID int64) ([]entities.Order, error)
	PaymentsByOrder(ctx context.Context, orderID int64) ([]entities.Payment, error)

	UserExists(ctx context.Context, userID int64) (bool, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

type Notifier interface {
	Notify(ctx context.Context, resource, action string, id int64)
}

const activeSessionKey = "register-session:active"

const sessionResource = "register-sessions"

type sessionService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      SessionRepo
	cache     Cache
	notifier  Notifier
}

func NewSessionService(logger *slog.Logger, txManager trm.Manager, repo SessionRepo, cache Cache, notifier Notifier) *sessionService {
	return &sessionService{
		logger:    logger.With(slog.String("service", "session")),
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		notifier:  notifier,
	}
}

type OpenSessionParams struct {
	OpenedBy    int64
	OpeningCash entities.Money
	Notes       string
}

func (s *sessionService) OpenSession(ctx context.Context, params OpenSessionParams) (entities.RegisterSession, error) {
	exists, err := s.repo.UserExists(ctx, params.OpenedBy)
	if err != nil {
		return entities.RegisterSession{}, fmt.Errorf("failed to check opening user: %w", err)
	}
	if !exists {
		return entities.RegisterSession{}, entities.ErrUserNotFound
	}

	session, err := s.repo.InsertSession(ctx, params.OpenedBy, params.OpeningCash, params.Notes)
	if err != nil {
		return entities.RegisterSession{}, err
	}

	s.cache.Delete(activeSessionKey)
	s.notifier.Notify(ctx, sessionResource, "created", session.ID)
	s.logger.Info("register session opened",
		slog.Int64("session_id", session.ID),
		slog.Int64("opened_by", params.OpenedBy),
	)
	return session, nil
}

// UpdateSession applies pre-close corrections. A closed session is terminal:
// its reconciled figures are never rewritten.
func (s *sessionService) UpdateSession(ctx context.Context, id int64, upd entities.SessionUpdate) (entities.RegisterSession, error) {
	if upd.ClosedBy != nil {
		exists, err := s.repo.UserExists(ctx, *upd.ClosedBy)
		if err != nil {
			return entities.RegisterSession{}, fmt.Errorf("failed to check closing user: %w", err)
		}
		if !exists {
			return entities.RegisterSession{}, entities.ErrUserNotFound
		}
	}

	current, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return entities.RegisterSession{}, err
	}
	if current.Status == entities.SessionStatusClosed {
		return entities.RegisterSession{}, entities.ErrSessionAlreadyClosed
	}

	session, err := s.repo.UpdateSession(ctx, id, upd)
	if err != nil {
		return entities.RegisterSession{}, err
	}

	s.cache.Delete(activeSessionKey)
	s.notifier.Notify(ctx, sessionResource, "updated", session.ID)
	return session, nil
}

type CloseSessionParams struct {
	SessionID   int64
	ClosedBy    int64
	ClosingCash entities.Money
	// ExpectedCash overrides the computed value when set; used for manual
	// corrections at close time.
	ExpectedCash *entities.Money
	Notes        *string
}

// CloseSession reconciles the drawer and closes the shift in one
// transaction. Only completed orders of the session contribute to expected
// cash; orders still open when the shift closes are excluded.
func (s *sessionService) CloseSession(ctx context.Context, params CloseSessionParams) (entities.RegisterSession, error) {
	exists, err := s.repo.UserExists(ctx, params.ClosedBy)
	if err != nil {
		return entities.RegisterSession{}, fmt.Errorf("failed to check closing user: %w", err)
	}
	if !exists {
		return entities.RegisterSession{}, entities.ErrUserNotFound
	}

	var closed entities.RegisterSession
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		session, err := s.repo.GetSession(ctx, params.SessionID)
		if err != nil {
			return err
		}
		if session.Status == entities.SessionStatusClosed {
			return entities.ErrSessionAlreadyClosed
		}

		orders, err := s.repo.CompletedOrdersBySession(ctx, session.ID)
		if err != nil {
			return err
		}

		var cashSales, totalSales entities.Money
		for _, order := range orders {
			payments, err := s.repo.PaymentsByOrder(ctx, order.ID)
			if err != nil {
				return err
			}
			applied := finance.Allocate(order.Total, payments)
			cashSales += applied[entities.MethodCash]
			totalSales += order.Total
		}

		expected := session.OpeningCash + cashSales
		if params.ExpectedCash != nil {
			expected = *params.ExpectedCash
		}
		difference := params.ClosingCash - expected

		now := time.Now()
		closed = session
		closed.Status = entities.SessionStatusClosed
		closed.ClosedBy = &params.ClosedBy
		closed.ClosingCash = &params.ClosingCash
		closed.ExpectedCash = &expected
		closed.CashDifference = &difference
		closed.TotalSales = totalSales
		closed.TotalOrders = len(orders)
		closed.ClosedAt = &now
		if params.Notes != nil {
			closed.Notes = *params.Notes
		}

		return s.repo.MarkSessionClosed(ctx, closed)
	})
	if err != nil {
		return entities.RegisterSession{}, err
	}

	s.cache.Delete(activeSessionKey)
	s.notifier.Notify(ctx, sessionResource, "closed", closed.ID)
	s.logger.Info("register session closed",
		slog.Int64("session_id", closed.ID),
		slog.Int("total_orders", closed.TotalOrders),
		slog.Int64("cash_difference", int64(*closed.CashDifference)),
	)
	return closed, nil
}

func (s *sessionService) GetActiveSession(ctx context.Context) (*entities.RegisterSession, error) {
	if data, ok := s.cache.Get(activeSessionKey); ok {
		var session entities.RegisterSession
		if err := session.Unmarshal(data); err == nil {
			return &session, nil
		}
		// corrupt cache entry, fall through to the store
		s.cache.Delete(activeSessionKey)
	}

	session, err := s.repo.GetOpenSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if data, err := session.Marshal(); err == nil {
		s.cache.Set(activeSessionKey, data)
	}
	return session, nil
}
