// Package shell is the interactive menu loop that drives the services over
// a line-oriented reader and writer. It holds no business logic of its own,
// so tests can script a whole session through a buffer.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"finledger/internal/backup"
	"finledger/internal/core"
	"finledger/internal/services"
	"finledger/internal/storage"
)

const topMenu = `
1. Register
2. Login
3. Backup Database
4. Restore Database
5. Exit
`

const userMenu = `
1. Add Transaction
2. View Transactions
3. Generate Monthly Report
4. Set Budget
5. Logout
`

type Shell struct {
	in       *bufio.Reader
	raw      io.Reader
	out      io.Writer
	accounts *services.AccountService
	ledger   *services.LedgerService
	backups  *backup.Manager
	repo     *storage.Repository
	currency string
}

func New(in io.Reader, out io.Writer, accounts *services.AccountService, ledger *services.LedgerService, backups *backup.Manager, repo *storage.Repository, currency string) *Shell {
	return &Shell{
		in:       bufio.NewReader(in),
		raw:      in,
		out:      out,
		accounts: accounts,
		ledger:   ledger,
		backups:  backups,
		repo:     repo,
		currency: currency,
	}
}

// Run drives the top-level menu until exit is chosen or input ends. Errors
// raised by a single operation are reported and the menu is redisplayed;
// only input failures terminate the loop.
func (s *Shell) Run(ctx context.Context) error {
	for {
		fmt.Fprint(s.out, topMenu)
		choice, err := s.prompt("Enter choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			s.report(s.register(ctx))
		case "2":
			if err := s.login(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				s.fail(err)
			}
		case "3":
			if err := s.backups.Backup(ctx); err != nil {
				s.fail(err)
			} else {
				s.ok("Backup created at " + s.backups.BackupPath())
			}
		case "4":
			s.report(s.restore(ctx))
		case "5":
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice.")
		}
	}
}

func (s *Shell) register(ctx context.Context) error {
	username, err := s.prompt("Enter new username: ")
	if err != nil {
		return err
	}
	password, err := s.promptSecret("Enter password: ")
	if err != nil {
		return err
	}
	if err := s.accounts.Register(ctx, username, password); err != nil {
		return err
	}
	s.ok("Registration successful.")
	return nil
}

func (s *Shell) login(ctx context.Context) error {
	username, err := s.prompt("Username: ")
	if err != nil {
		return err
	}
	password, err := s.promptSecret("Password: ")
	if err != nil {
		return err
	}
	user, err := s.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Login successful.")
	return s.session(ctx, user)
}

// session is the authenticated submenu loop for one user.
func (s *Shell) session(ctx context.Context, username string) error {
	for {
		fmt.Fprint(s.out, userMenu)
		choice, err := s.prompt("Enter choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			s.report(s.addTransaction(ctx, username))
		case "2":
			s.report(s.listTransactions(ctx, username))
		case "3":
			s.report(s.monthlyReport(ctx, username))
		case "4":
			s.report(s.setBudget(ctx, username))
		case "5":
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice.")
		}
	}
}

func (s *Shell) addTransaction(ctx context.Context, username string) error {
	kind, err := s.prompt("Type (income/expense): ")
	if err != nil {
		return err
	}
	amount, err := s.prompt("Amount: ")
	if err != nil {
		return err
	}
	category, err := s.prompt("Category: ")
	if err != nil {
		return err
	}
	date, err := s.prompt("Date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	if _, err := s.ledger.AddTransaction(ctx, username, kind, amount, category, date); err != nil {
		return err
	}
	s.ok("Transaction added.")
	return nil
}

func (s *Shell) listTransactions(ctx context.Context, username string) error {
	txs, err := s.ledger.ListTransactions(ctx, username)
	if err != nil {
		return err
	}
	s.renderTransactions(txs)
	return nil
}

func (s *Shell) monthlyReport(ctx context.Context, username string) error {
	month, err := s.promptInt("Enter month (1-12): ")
	if err != nil {
		return err
	}
	year, err := s.promptInt("Enter year: ")
	if err != nil {
		return err
	}
	report, err := s.ledger.MonthlyReport(ctx, username, month, year)
	if err != nil {
		return err
	}
	s.renderReport(report)
	return nil
}

func (s *Shell) setBudget(ctx context.Context, username string) error {
	category, err := s.prompt("Category: ")
	if err != nil {
		return err
	}
	amount, err := s.prompt("Amount: ")
	if err != nil {
		return err
	}
	month, err := s.promptInt("Month (1-12): ")
	if err != nil {
		return err
	}
	year, err := s.promptInt("Year: ")
	if err != nil {
		return err
	}
	if err := s.ledger.SetBudget(ctx, username, category, amount, month, year); err != nil {
		return err
	}
	s.ok("Budget set.")
	return nil
}

// restore cycles the repository handle around the file swap: the old handle
// may serve cached pages from the overwritten file.
func (s *Shell) restore(ctx context.Context) error {
	if err := s.repo.Close(); err != nil {
		return fmt.Errorf("close database before restore: %w", err)
	}
	restoreErr := s.backups.Restore(ctx)
	if err := s.repo.Reopen(ctx); err != nil {
		return fmt.Errorf("reopen database after restore: %w", err)
	}
	if restoreErr != nil {
		return restoreErr
	}
	s.ok("Database restored from backup.")
	return nil
}

func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	return s.readLine()
}

// promptSecret reads a password without echo when the input is a terminal,
// and falls back to a plain line otherwise (pipes, tests).
func (s *Shell) promptSecret(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if f, ok := s.raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(s.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return s.readLine()
}

func (s *Shell) promptInt(label string) (int, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, core.ErrInvalidPeriod
	}
	return n, nil
}

func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Shell) ok(msg string) {
	fmt.Fprintln(s.out, "✅ "+msg)
}

// report prints an operation's failure and swallows it: a failed operation
// aborts itself, never the session.
func (s *Shell) report(err error) {
	if err != nil {
		s.fail(err)
	}
}

func (s *Shell) fail(err error) {
	fmt.Fprintln(s.out, "❌ "+userMessage(err))
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrDuplicateUser):
		return "Username already exists. Try another one."
	case errors.Is(err, core.ErrInvalidCredentials):
		return "Login failed."
	case errors.Is(err, core.ErrEmptyUsername):
		return "Username cannot be empty."
	case errors.Is(err, core.ErrEmptyPassword):
		return "Password cannot be empty."
	case errors.Is(err, core.ErrInvalidKind):
		return "Type must be income or expense."
	case errors.Is(err, core.ErrInvalidAmount):
		return "Invalid amount."
	case errors.Is(err, core.ErrInvalidPeriod):
		return "Invalid month or year."
	case errors.Is(err, core.ErrNoBackup):
		return "No backup found."
	default:
		return err.Error()
	}
}
