package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/waitline/waitline-manager/internal/entity"
)

type (
	// Waitlists is the registry of owner-created waitlists.
	Waitlists interface {
		Create(ctx context.Context, w *entity.WaitlistInsert, ownerID, formKey string) (int, error)
		GetById(ctx context.Context, id int) (*entity.Waitlist, error)
		GetBySlug(ctx context.Context, slug string) (*entity.Waitlist, error)
		GetByFormKey(ctx context.Context, formKey string) (*entity.Waitlist, error)
		ListByOwner(ctx context.Context, ownerID string) ([]entity.Waitlist, error)
		UpdateBasicSettings(ctx context.Context, id int, patch entity.BasicSettingsPatch) error
		UpdateThankYouPage(ctx context.Context, id int, patch entity.ThankYouPagePatch) error
		UpdateSubmissionSettings(ctx context.Context, id int, patch entity.SubmissionSettingsPatch) error
		SetPublished(ctx context.Context, id int, published bool) error
	}

	// Entries sequences waitlist enrollments and aggregates them.
	Entries interface {
		// Join resolves the waitlist by slug and inserts an entry with the
		// next position, crediting the referrer if one is given. The whole
		// sequence runs in a single serializable transaction.
		Join(ctx context.Context, slug, email, referralCode string, referredBy *int) (*entity.Entry, *entity.Waitlist, error)
		ListByWaitlist(ctx context.Context, waitlistID int) ([]entity.Entry, error)
		Leaderboard(ctx context.Context, waitlistID, limit int) ([]entity.Entry, error)
		GetAnalytics(ctx context.Context, waitlistID int) (*entity.Analytics, error)
	}

	Mail interface {
		AddMail(ctx context.Context, ser *entity.SendEmailRequest) (int, error)
		GetAllUnsent(ctx context.Context, withError bool) ([]entity.SendEmailRequest, error)
		UpdateSent(ctx context.Context, id int) error
		AddError(ctx context.Context, id int, errMsg string) error
	}

	Repository interface {
		Waitlists() Waitlists
		Entries() Entries
		Mail() Mail
		Tx(ctx context.Context, f func(context.Context, Repository) error) error
		TxBegin(ctx context.Context) (Repository, error)
		TxCommit(ctx context.Context) error
		TxRollback(ctx context.Context) error
		Now() time.Time
		InTx() bool
		Close()
		IsErrUniqueViolation(err error) bool
		IsErrorRepeat(err error) bool
		DB() DB
	}

	// DB represents database interface.
	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
		NamedQuery(query string, arg interface{}) (*sqlx.Rows, error)
		PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
		PreparexContext(ctx context.Context, query string) (*sqlx.Stmt, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	// Identity is the external identity provider the service delegates
	// account management to.
	Identity interface {
		SignUp(ctx context.Context, email, password string) error
		SignInWithPassword(ctx context.Context, email, password string) (*entity.User, error)
		AuthorizeURL(ctx context.Context, provider, redirectTo string) (string, error)
		ExchangeCode(ctx context.Context, code string) (*entity.User, error)
		SignOut(ctx context.Context, accessToken string) error
	}

	Mailer interface {
		SendJoinConfirmation(ctx context.Context, rep Repository, to string, d *entity.JoinConfirmation) error
		SendOwnerNotification(ctx context.Context, rep Repository, to string, d *entity.OwnerNotification) error
		Start(ctx context.Context) error
		Stop() error
	}
)
