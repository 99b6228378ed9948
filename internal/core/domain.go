package core

import (
	"errors"
	"strings"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind is the direction of a transaction, income or expense.
	Kind string

	User struct {
		Username     string
		PasswordHash string
		CreatedAt    string
	}

	Transaction struct {
		ID        int64
		Username  string
		Kind      Kind
		Amount    Money
		Category  string
		Date      string // YYYY-MM-DD, caller-supplied
		CreatedAt string
	}

	Budget struct {
		ID       int64
		Username string
		Category string
		Amount   Money
		Month    int
		Year     int
	}

	// Period is the (month, year) pair a report aggregates over.
	Period struct {
		Month int // 1-12
		Year  int
	}
)

var (
	ErrDuplicateUser      = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyUsername      = errors.New("empty username")
	ErrEmptyPassword      = errors.New("empty password")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidPeriod      = errors.New("invalid month or year")
	ErrNoBackup           = errors.New("no backup found")
)

// ParseKind normalizes a user-supplied kind token to one of the two
// allowed literals.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", ErrInvalidKind
	}
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidPeriod
	}
	if p.Year < 1 {
		return ErrInvalidPeriod
	}
	return nil
}
