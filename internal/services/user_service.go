package services

import (
	"context"
	"database/sql"

	"github.com/andklim/contacts-be/internal/apperr"
	"github.com/andklim/contacts-be/internal/models"
)

// UserServiceProvider defines the interface for user directory services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, username, email, passwordHash, avatar string) (models.User, error)
	ConfirmEmail(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, email, url string) (models.User, error)
}

// UserService provides lookup and mutation of user identity records.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, username, email, password_hash, avatar, confirmed, created_at"

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var avatar sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &avatar, &user.Confirmed, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.New(apperr.CodeUserNotFound, "user not found")
		}
		return models.User{}, err
	}
	user.Avatar = avatar.String
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByUsername retrieves a single user by their username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	return scanUser(row)
}

// GetUserByEmail retrieves a single user by their email address.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// CreateUser persists a new user record. The password must already be
// hashed by the caller. Uniqueness violations on username or email surface
// as Conflict errors.
func (s *UserService) CreateUser(ctx context.Context, username, email, passwordHash, avatar string) (models.User, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, avatar) VALUES (?, ?, ?, ?)",
		username, email, passwordHash, nullable(avatar))
	if err != nil {
		return models.User{}, translateUnique(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(ctx, id)
}

// ConfirmEmail marks a user's email as confirmed. The flag is monotonic:
// re-confirming an already confirmed user is a no-op, and a missing user
// fails silently (callers pre-check existence).
func (s *UserService) ConfirmEmail(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE users SET confirmed = 1 WHERE email = ?", email)
	return err
}

// UpdateAvatar sets a user's avatar URL and returns the updated record.
func (s *UserService) UpdateAvatar(ctx context.Context, email, url string) (models.User, error) {
	_, err := s.db.ExecContext(ctx, "UPDATE users SET avatar = ? WHERE email = ?", url, email)
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByEmail(ctx, email)
}

// ListConfirmedUsers returns every user with a confirmed email, used by the
// birthday digest job.
func (s *UserService) ListConfirmedUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users WHERE confirmed = 1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var avatar sql.NullString
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &avatar, &user.Confirmed, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.Avatar = avatar.String
		users = append(users, user)
	}
	return users, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
