package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/unihub-club-events/internal/model"
	"github.com/iliyamo/unihub-club-events/internal/utils"
)

// UserRepo provides access to the 'users' table, including the
// verification and password-reset code lifecycle.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// NewUser carries the registration fields for Create.  Password is
// the plaintext secret; it is hashed with bcrypt before storage.
// VerificationCode is the 6-digit code mailed to the user; the
// account starts unverified.
type NewUser struct {
	Name             string
	Surname          string
	Email            string
	Password         string
	Phone            *string
	Gender           *string
	BirthDate        *string
	VerificationCode string
}

const userColumns = `id, name, surname, email, password_hash, role, phone, gender, birth_date,
       club_name, is_verified, verification_code, reset_password_code, reset_password_expires,
       created_at, updated_at`

// Create inserts a new unverified student account and returns its ID.
func (r *UserRepo) Create(ctx context.Context, nu NewUser, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	hash, err := utils.HashPassword(nu.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (name, surname, email, password_hash, role, phone, gender, birth_date, is_verified, verification_code)
		 VALUES (?,?,?,?,?,?,?,?,0,?)`,
		nu.Name, nu.Surname, email, hash, "student", nu.Phone, nu.Gender, nu.BirthDate, nu.VerificationCode)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id)
	return scanUser(row)
}

// VerifyEmail redeems a verification code.  The checks run in
// order: unknown email yields ErrUserNotFound, an already verified
// account ErrAlreadyVerified and a mismatched code ErrInvalidCode.
// On success the account is marked verified and the code cleared,
// restoring the invariant that verification_code is non-null only
// while unverified.
func (r *UserRepo) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		id         uint64
		isVerified bool
		stored     sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, is_verified, verification_code FROM users WHERE email=? LIMIT 1`,
		email).Scan(&id, &isVerified, &stored)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if isVerified {
		return ErrAlreadyVerified
	}
	if !stored.Valid || stored.String != code {
		return ErrInvalidCode
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE users SET is_verified=1, verification_code=NULL, updated_at=NOW() WHERE id=?`, id)
	return err
}

// SetResetCode stores a fresh password reset code with its expiry,
// overwriting any outstanding request for the user.
func (r *UserRepo) SetResetCode(ctx context.Context, email, code string, expires time.Time) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET reset_password_code=?, reset_password_expires=?, updated_at=NOW() WHERE email=?`,
		code, expires.UTC(), email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ResetPassword redeems a reset code and replaces the stored
// password hash.  Checks run in order: presence of a request
// (ErrNoResetRequest), expiry (ErrCodeExpired), then code equality
// (ErrInvalidCode).  On success the code and expiry are cleared so
// the request cannot be replayed.
func (r *UserRepo) ResetPassword(ctx context.Context, email, code, newPassword string, cost int) error {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		id      uint64
		stored  sql.NullString
		expires sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, reset_password_code, reset_password_expires FROM users WHERE email=? LIMIT 1`,
		email).Scan(&id, &stored, &expires)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if !stored.Valid || !expires.Valid {
		return ErrNoResetRequest
	}
	if time.Now().UTC().After(expires.Time) {
		return ErrCodeExpired
	}
	if stored.String != code {
		return ErrInvalidCode
	}
	hash, err := utils.HashPassword(newPassword, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash=?, reset_password_code=NULL, reset_password_expires=NULL, updated_at=NOW() WHERE id=?`,
		hash, id)
	return err
}

// UpdatePassword replaces the password hash for an authenticated
// password change.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID uint64, newPassword string, cost int) error {
	hash, err := utils.HashPassword(newPassword, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?`, hash, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateRole rewrites a user's role.  The caller validates the role
// name; this only touches the row.
func (r *UserRepo) UpdateRole(ctx context.Context, userID uint64, role string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET role=?, updated_at=NOW() WHERE id=?`, role, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateProfile updates the mutable profile fields of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID uint64, name, surname string, phone, gender, birthDate *string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET name=?, surname=?, phone=?, gender=?, birth_date=?, updated_at=NOW() WHERE id=?`,
		name, surname, phone, gender, birthDate, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// scanUser maps one users row onto model.User, converting nullable
// columns to pointers.
func scanUser(row *sql.Row) (model.User, error) {
	var (
		u          model.User
		phone      sql.NullString
		gender     sql.NullString
		birthDate  sql.NullString
		clubName   sql.NullString
		verifCode  sql.NullString
		resetCode  sql.NullString
		resetUntil sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.PasswordHash, &u.Role,
		&phone, &gender, &birthDate, &clubName, &u.IsVerified, &verifCode,
		&resetCode, &resetUntil, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if gender.Valid {
		u.Gender = &gender.String
	}
	if birthDate.Valid {
		u.BirthDate = &birthDate.String
	}
	if clubName.Valid {
		u.ClubName = &clubName.String
	}
	if verifCode.Valid {
		u.VerificationCode = &verifCode.String
	}
	if resetCode.Valid {
		u.ResetPasswordCode = &resetCode.String
	}
	if resetUntil.Valid {
		t := resetUntil.Time
		u.ResetPasswordExpires = &t
	}
	return u, nil
}
