package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Jamolkhon5/hackwoo/internal/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Connect открывает базу; для sqlite создает каталог файла
func Connect(driver, dsn string) (*sqlx.DB, error) {
	if driver == DriverSQLite && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite не любит параллельную запись из разных соединений
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate создает таблицы, если их нет
func (r *Repository) Migrate(ctx context.Context) error {
	idColumn := "id SERIAL PRIMARY KEY"
	if r.db.DriverName() == DriverSQLite {
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            ` + idColumn + `,
            external_id VARCHAR(255) NOT NULL UNIQUE,
            email VARCHAR(255) NOT NULL DEFAULT '',
            first_name VARCHAR(255) NOT NULL DEFAULT '',
            last_name VARCHAR(255) NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS kv_store (
            user_id VARCHAR(255) NOT NULL,
            key VARCHAR(255) NOT NULL,
            value TEXT NOT NULL,
            updated_at TIMESTAMP NOT NULL,
            PRIMARY KEY (user_id, key)
        )`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// UpsertUser создает пользователя или обновляет его данные
func (r *Repository) UpsertUser(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	query := r.db.Rebind(`
        INSERT INTO users (external_id, email, first_name, last_name, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT (external_id) DO UPDATE SET
            email = excluded.email,
            first_name = excluded.first_name,
            last_name = excluded.last_name,
            updated_at = excluded.updated_at`)

	if _, err := r.db.ExecContext(ctx, query, u.ExternalID, u.Email, u.FirstName, u.LastName, now, now); err != nil {
		return models.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return r.GetUserByExternalID(ctx, u.ExternalID)
}

func (r *Repository) GetUserByExternalID(ctx context.Context, externalID string) (models.User, error) {
	query := r.db.Rebind(`
        SELECT id, external_id, email, first_name, last_name, created_at, updated_at
        FROM users
        WHERE external_id = ?`)

	var u models.User
	err := r.db.GetContext(ctx, &u, query, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %q: %w", externalID, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// KVStore - хранилище ключ-значение одного пользователя
type KVStore struct {
	q      sqlx.ExtContext
	userID string
}

func (r *Repository) KV(userID string) *KVStore {
	return &KVStore{q: r.db, userID: userID}
}

// UpdateKV выполняет fn в одной транзакции, запросы одного пользователя идут по очереди.
// В postgres берется advisory-блокировка по user_id; в sqlite одно соединение.
func (r *Repository) UpdateKV(ctx context.Context, userID string, fn func(kv *KVStore) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if r.db.DriverName() == DriverPostgres {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
			return fmt.Errorf("lock %s: %w", userID, err)
		}
	}

	if err := fn(&KVStore{q: tx, userID: userID}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := s.q.Rebind(`SELECT value FROM kv_store WHERE user_id = ? AND key = ?`)

	var value string
	err := sqlx.GetContext(ctx, s.q, &value, query, s.userID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	query := s.q.Rebind(`
        INSERT INTO kv_store (user_id, key, value, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (user_id, key) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at`)

	if _, err := s.q.ExecContext(ctx, query, s.userID, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	query := s.q.Rebind(`DELETE FROM kv_store WHERE user_id = ? AND key = ?`)

	if _, err := s.q.ExecContext(ctx, query, s.userID, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
