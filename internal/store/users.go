package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"venuebook/internal/auth"
)

// EnsureAdmin creates the administrator account when no user with that name
// exists. It reports whether a row was inserted.
func (s *Store) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(username) == "" {
		return false, invalidInput("admin username is required")
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE username = ?", username).Scan(&count); err != nil {
		return false, fmt.Errorf("lookup admin: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	res, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO users (username, password_hash, is_admin, created_at) VALUES (?, ?, 1, ?)`,
		username, hash, s.timestamp(),
	)
	if err != nil {
		return false, storageError("seed admin", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, storageError("seed admin", err)
	}
	return affected > 0, nil
}

// Register creates a non-admin account.
func (s *Store) Register(ctx context.Context, username, password string) (*User, error) {
	return s.CreateUser(ctx, username, password, false)
}

// CreateUser creates an account with the given admin flag.
func (s *Store) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*User, error) {
	return s.createUser(ensureContext(ctx), s.execWithRetry, username, password, isAdmin)
}

func (s *Store) createUser(ctx context.Context, exec execFunc, username, password string, isAdmin bool) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, invalidInput("username is required")
	}
	if password == "" {
		return nil, invalidInput("password is required")
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	created := s.now()
	res, err := exec(ctx,
		`INSERT INTO users (username, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?)`,
		username, hash, boolToInt(isAdmin), s.timestamp(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("register %q: %w", username, ErrDuplicateUsername)
		}
		return nil, storageError("register user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageError("register user", err)
	}
	return &User{ID: id, Username: username, IsAdmin: isAdmin, CreatedAt: created.UTC().Truncate(timeResolution)}, nil
}

// FindUserByName fetches a user by exact username.
func (s *Store) FindUserByName(ctx context.Context, username string) (*User, error) {
	return findUserByName(ensureContext(ctx), s.db, username)
}

func findUserByName(ctx context.Context, q queryer, username string) (*User, error) {
	row := q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Authenticate checks a username and password pair. Usernames compare
// case-sensitively.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*User, error) {
	ctx = ensureContext(ctx)
	var (
		hash       string
		user       User
		isAdmin    int
		createdRaw sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, password_hash, is_admin, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &hash, &isAdmin, &createdRaw)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if verifyErr := s.hasher.Verify(hash, password); verifyErr != nil {
		if errors.Is(verifyErr, auth.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", verifyErr)
	}
	user.IsAdmin = isAdmin != 0
	user.CreatedAt = parseTimestamp(createdRaw)
	return &user, nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), "SELECT "+userColumns+" FROM users WHERE user_id = ?", id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns accounts in id order, optionally skipping administrators.
func (s *Store) ListUsers(ctx context.Context, excludeAdmins bool) ([]User, error) {
	query := "SELECT " + userColumns + " FROM users"
	if excludeAdmins {
		query += " WHERE is_admin = 0"
	}
	query += " ORDER BY user_id"

	rows, err := s.db.QueryContext(ensureContext(ctx), query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// DeleteUser removes a non-admin user and their bookings in one transaction.
// It returns the number of bookings removed.
func (s *Store) DeleteUser(ctx context.Context, id int64) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var isAdmin int
		err := tx.QueryRowContext(ctx, "SELECT is_admin FROM users WHERE user_id = ?", id).Scan(&isAdmin)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("user", id)
		}
		if err != nil {
			return storageError("delete user", err)
		}
		if isAdmin != 0 {
			return invalidInput(fmt.Sprintf("user %d is an administrator", id))
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM bookings WHERE user_id = ?", id)
		if err != nil {
			return storageError("delete user bookings", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return storageError("delete user bookings", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE user_id = ?", id); err != nil {
			return storageError("delete user", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
