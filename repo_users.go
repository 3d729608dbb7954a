package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LinkProviderSQL writes the external provider linkage at most once: the
// guard on provider_user_id enforces first-writer-wins at the store level.
var LinkProviderSQL = `UPDATE "users" AS "usr"
SET
	"provider" = ?,
	"provider_user_id" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND "usr"."email" = ?
AND ("usr"."provider_user_id" IS NULL OR "usr"."provider_user_id" = '')
RETURNING *;`

// Users is the user store boundary. Lookups hide the password hash unless the
// caller explicitly requests it, creates map uniqueness violations to
// ErrDuplicateEmail, and the provider linkage is set at most once.
type Users interface {
	repository.Repository[*User]

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	GetByEmailWithPassword(ctx context.Context, email string) (*User, error)
	GetByEmailWithPasswordTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)

	LinkProvider(ctx context.Context, email, provider, providerUserID string) error
	LinkProviderTx(ctx context.Context, tx bun.IDB, email, provider, providerUserID string) error

	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

// GetByEmailTx resolves a user by exact email match. The password hash is
// excluded; use GetByEmailWithPasswordTx when verification needs the secret.
func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.getByEmail(ctx, tx, email, false)
}

func (a *users) GetByEmailWithPassword(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailWithPasswordTx(ctx, a.db, email)
}

func (a *users) GetByEmailWithPasswordTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.getByEmail(ctx, tx, email, true)
}

func (a *users) getByEmail(ctx context.Context, tx bun.IDB, email string, includeSecret bool) (*User, error) {
	record := &User{}
	q := tx.NewSelect().Model(record)

	if !includeSecret {
		q = q.ExcludeColumn("password_hash")
	}

	err := q.
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	return a.CreateTx(ctx, tx, user)
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)

	created, err := a.Repository.CreateTx(ctx, tx, record, criteria...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return created, nil
}

func (a *users) LinkProvider(ctx context.Context, email, provider, providerUserID string) error {
	return a.LinkProviderTx(ctx, a.db, email, provider, providerUserID)
}

// LinkProviderTx attaches the external provider id to the user with the
// given email. A user that already carries a linkage is left untouched; the
// call is still a success so repeated logins stay idempotent.
func (a *users) LinkProviderTx(ctx context.Context, tx bun.IDB, email, provider, providerUserID string) error {
	_, err := a.Repository.RawTx(ctx, tx, LinkProviderSQL, provider, providerUserID, email)
	return err
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, user)
}

func (a *users) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	loggedInAt := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"loggedin_at" = ?,
			"login_attempt_at" = NULL,
			"login_attempts" = 0
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, loggedInAt, user.ID).Exec(ctx)

	return err
}

func (a *users) TrackAttemptedLogin(ctx context.Context, user *User) error {
	return a.TrackAttemptedLoginTx(ctx, a.db, user)
}

func (a *users) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	criteria := []repository.UpdateCriteria{
		repository.UpdateByID(user.ID.String()),
	}

	record := &User{}
	record.ID = user.ID
	record.LoginAttempts = user.LoginAttempts + 1
	now := time.Now()
	record.LoginAttemptAt = &now

	_, err := a.Repository.UpdateTx(ctx, tx, record, criteria...)

	return err
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

// isDuplicateKeyError matches uniqueness violations across the dialects we
// validate against (sqlite and postgres). Repository errors surface a generic
// top-level message; the driver text lives on the wrapped cause, so the whole
// unwrap chain is inspected.
func isDuplicateKeyError(err error) bool {
	for err != nil {
		msg := err.Error()
		if strings.Contains(msg, "UNIQUE constraint failed") ||
			strings.Contains(msg, "duplicate key value violates unique constraint") ||
			strings.Contains(msg, "constraint failed: users.email") {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
