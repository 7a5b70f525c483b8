package directory

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var _ Accounts = (*accounts)(nil)

// NewAccountsRepository creates the bun backed account store. Login
// uniqueness is enforced by the table's unique index, so a concurrent
// duplicate insert surfaces as a conflict instead of racing a policy
// level pre-check.
func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "login"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) Create(ctx context.Context, record *Account) (*Account, error) {
	prepareAccountDefaults(record)

	created, err := a.Repository.CreateTx(ctx, a.db, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLoginTaken
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert account")
	}

	return created, nil
}

func (a *accounts) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	record := &Account{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account by id")
	}

	return record, nil
}

func (a *accounts) GetByLogin(ctx context.Context, login string) (*Account, error) {
	record := &Account{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.login = ?", login).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account by login")
	}

	return record, nil
}

func (a *accounts) LoginExists(ctx context.Context, login string) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*Account)(nil)).
		Where("?TableAlias.login = ?", login).
		Exists(ctx)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check login")
	}

	return exists, nil
}

func (a *accounts) Update(ctx context.Context, record *Account) (*Account, error) {
	updated, err := a.Repository.UpdateTx(ctx, a.db, record,
		repository.UpdateByID(record.ID.String()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLoginTaken
		}
		if repository.IsRecordNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update account")
	}

	return updated, nil
}

func (a *accounts) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*Account)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete account")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (a *accounts) ListAll(ctx context.Context) ([]*Account, error) {
	var records []*Account
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list accounts")
	}

	return records, nil
}

func (a *accounts) ListActive(ctx context.Context) ([]*Account, error) {
	var records []*Account
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.revoked_at IS NULL").
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list active accounts")
	}

	return records, nil
}

func (a *accounts) ListBornBefore(ctx context.Context, cutoff time.Time) ([]*Account, error) {
	var records []*Account
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.birthday IS NOT NULL").
		Where("?TableAlias.birthday <= ?", cutoff).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list accounts by birthday")
	}

	return records, nil
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
}

// isUniqueViolation matches the constraint error text for the sqlite and
// postgres dialects the store runs against.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
