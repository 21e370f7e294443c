package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID        int64  `json:"user_id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	FirstSeen int64  `json:"first_seen"`
}

type AllowedUser struct {
	ID       int64  `json:"user_id"`
	Username string `json:"username"`
	AddedAt  int64  `json:"added_at"`
}

// UserStore is what the bot and the ops API need from persistence.
type UserStore interface {
	UpsertUser(ctx context.Context, id int64, username, fullName string) error
	GetUser(ctx context.Context, id int64) (User, error)
	ListUsers(ctx context.Context) ([]User, error)

	Allow(ctx context.Context, id int64, username string) error
	Remove(ctx context.Context, id int64) (bool, error)
	ListAllowed(ctx context.Context) ([]AllowedUser, error)
	IsAllowed(ctx context.Context, id int64) (bool, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) UpsertUser(ctx context.Context, id int64, username, fullName string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (user_id,username,full_name,first_seen)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE SET username=EXCLUDED.username, full_name=EXCLUDED.full_name`,
		id, username, fullName, time.Now().Unix())
	return err
}

func (s *SQLStore) GetUser(ctx context.Context, id int64) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT user_id,username,full_name,first_seen FROM users WHERE user_id=$1`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.FirstSeen); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id,username,full_name,first_seen FROM users ORDER BY first_seen ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.FirstSeen); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) Allow(ctx context.Context, id int64, username string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO allowed_users (user_id,username,added_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET username=EXCLUDED.username`,
		id, username, time.Now().Unix())
	return err
}

func (s *SQLStore) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM allowed_users WHERE user_id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) ListAllowed(ctx context.Context) ([]AllowedUser, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id,username,added_at FROM allowed_users ORDER BY added_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AllowedUser
	for rows.Next() {
		var u AllowedUser
		if err := rows.Scan(&u.ID, &u.Username, &u.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) IsAllowed(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM allowed_users WHERE user_id=$1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
