// Package store persists registrations in a single SQLite table.
package store

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const schema = `CREATE TABLE IF NOT EXISTS users (
	name TEXT,
	age INTEGER,
	email TEXT,
	face_image BLOB
)`

type Record struct {
	Name  string
	Age   int
	Email string
	Face  []byte
}

type Store struct {
	db *sql.DB
}

// Open opens the database file, creating it and the users table if absent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can not open database %s", path)
	}
	// one writer, one reader, one process
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Can not create users table")
	}

	return &Store{db: db}, nil
}

// LoadAll returns every registration in insertion order.
func (s *Store) LoadAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, age, email, face_image FROM users ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "Can not query users")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r     Record
			age   sql.NullInt64
			email sql.NullString
		)
		if err := rows.Scan(&r.Name, &age, &email, &r.Face); err != nil {
			return nil, errors.Wrap(err, "Can not scan user")
		}
		r.Age = int(age.Int64)
		r.Email = email.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "Can not read users")
	}

	return records, nil
}

func (s *Store) Append(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, age, email, face_image) VALUES (?, ?, ?, ?)`,
		r.Name, r.Age, r.Email, r.Face,
	)
	if err != nil {
		return errors.Wrapf(err, "Can not insert user %q", r.Name)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "Can not count users")
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
