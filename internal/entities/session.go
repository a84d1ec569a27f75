package entities

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"
)

type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

// RegisterSession is one cash-drawer shift. At most one session is open at a
// time; the store enforces that with a partial unique index on status='open'.
// ClosingCash, ExpectedCash and CashDifference are set only when the session
// is closed.
type RegisterSession struct {
	ID             int64
	Status         SessionStatus
	OpenedBy       int64
	ClosedBy       *int64
	OpeningCash    Money
	ClosingCash    *Money
	ExpectedCash   *Money
	CashDifference *Money
	TotalSales     Money
	TotalOrders    int
	Notes          string
	OpenedAt       time.Time
	ClosedAt       *time.Time
}

// SessionUpdate carries optional pre-close corrections; nil fields are left
// untouched.
type SessionUpdate struct {
	ClosedBy     *int64
	ClosingCash  *Money
	ExpectedCash *Money
	Notes        *string
}

var (
	ErrSessionNotFound      = errors.New("register session not found")
	ErrSessionAlreadyClosed = errors.New("register session already closed")
	ErrOpenSessionExists    = errors.New("an open register session already exists")
	ErrUserNotFound         = errors.New("user not found")
)

func (s *RegisterSession) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *RegisterSession) Unmarshal(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(s)
}
