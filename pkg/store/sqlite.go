package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the core.TokenStore interface on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and initialises its schema.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init sqlite database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	if err := initTable(db, "shop_token", `
		CREATE TABLE IF NOT EXISTS shop_token (
			shop          TEXT PRIMARY KEY,
			access_token  TEXT NOT NULL,
			updated_at    INTEGER NOT NULL
		);`,
	); err != nil {
		return err
	}

	if err := initTable(db, "user_shop", `
		CREATE TABLE IF NOT EXISTS user_shop (
			user_id     TEXT PRIMARY KEY,
			shop        TEXT NOT NULL,
			updated_at  INTEGER NOT NULL
		);`,
	); err != nil {
		return err
	}

	return nil
}

func initTable(
	db *sql.DB,
	name string,
	sql string,
) error {
	if _, err := db.Exec(sql); err != nil {
		return fmt.Errorf("failed to init '%s' table schema: %w", name, err)
	}
	return nil
}

// GetByUserID resolves the user's shop and returns its access token.
// It returns ErrTokenNotFound if the user or the shop token is unknown.
func (s *SQLiteStore) GetByUserID(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrTokenNotFound
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT t.access_token
		FROM user_shop u
		JOIN shop_token t ON t.shop = u.shop
		WHERE u.user_id = ?;`,
		userID,
	)
	return scanToken(row)
}

// GetByShopName returns the access token stored for shopName.
// It returns ErrTokenNotFound if shopName is empty or unknown.
func (s *SQLiteStore) GetByShopName(ctx context.Context, shopName string) (string, error) {
	if shopName == "" {
		return "", ErrTokenNotFound
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT access_token FROM shop_token WHERE shop = ?;",
		shopName,
	)
	return scanToken(row)
}

func scanToken(row *sql.Row) (string, error) {
	var accessToken string
	if err := row.Scan(&accessToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to read access token from sqlite: %w", err)
	}
	return accessToken, nil
}

// Store upserts both mappings inside one transaction.
func (s *SQLiteStore) Store(ctx context.Context, userID, shopName, accessToken string) error {
	if shopName == "" {
		return ErrEmptyShopName
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin sqlite transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO shop_token (shop, access_token, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(shop) DO UPDATE SET
			access_token = excluded.access_token,
			updated_at = excluded.updated_at;`,
		shopName, accessToken, now,
	); err != nil {
		return fmt.Errorf("failed to store access token in sqlite: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_shop (user_id, shop, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			shop = excluded.shop,
			updated_at = excluded.updated_at;`,
		userID, shopName, now,
	); err != nil {
		return fmt.Errorf("failed to store user mapping in sqlite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sqlite transaction: %w", err)
	}
	return nil
}
