package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/testgen-lite/testgen/internal/assemble"
)

// SQLStore persists sessions in the sessions table, with the instance
// sequence serialized as JSON. Works against both supported drivers.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Put(ctx context.Context, sess Session) error {
	ij, err := json.Marshal(sess.Instances)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	created := sess.CreatedAt
	if created == 0 {
		created = now
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions (id,owner,instances_json,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET instances_json=EXCLUDED.instances_json, updated_at=EXCLUDED.updated_at`,
		sess.ID, sess.Owner, string(ij), created, now)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,owner,instances_json,created_at,updated_at FROM sessions WHERE id=$1`, id)
	var sess Session
	var ij string
	if err := row.Scan(&sess.ID, &sess.Owner, &ij, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	if err := json.Unmarshal([]byte(ij), &sess.Instances); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) ListByOwner(ctx context.Context, owner string) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,owner,instances_json,created_at,updated_at FROM sessions
		WHERE owner=$1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var sess Session
		var ij string
		if err := rows.Scan(&sess.ID, &sess.Owner, &ij, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, err
		}
		var seq assemble.Sequence
		if err := json.Unmarshal([]byte(ij), &seq); err != nil {
			return nil, err
		}
		sess.Instances = seq
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=$1`, id)
	return err
}
