package persistence

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const videoMetaDefaultTTL = 10 * time.Minute

//go:embed migrations/*.sql
var migrationFiles embed.FS

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	// Bootstrap schema_migrations table so we can track applied versions.
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version := migrationVersion(entry.Name())
		if version <= 0 {
			continue
		}
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", entry.Name(), err)
		}
		if exists > 0 {
			continue
		}
		content, err := migrationFiles.ReadFile(filepath.Join("migrations", entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// migrationVersion extracts the leading integer from a migration filename (e.g. "001_init.sql" → 1).
func migrationVersion(name string) int {
	for i, c := range name {
		if c < '0' || c > '9' {
			if i == 0 {
				return 0
			}
			n, _ := strconv.Atoi(name[:i])
			return n
		}
	}
	n, _ := strconv.Atoi(name)
	return n
}

func (s *SQLiteStore) PutVideoMeta(ctx context.Context, meta VideoMeta) error {
	languagesJSON, err := json.Marshal(meta.Languages)
	if err != nil {
		return err
	}
	updatedAt := meta.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	expiresAt := meta.ExpiresAt.UTC()
	if expiresAt.IsZero() {
		expiresAt = updatedAt.Add(videoMetaDefaultTTL)
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO video_meta_cache (
			video_id, title, languages_json, expires_at, updated_at
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			title=excluded.title,
			languages_json=excluded.languages_json,
			expires_at=excluded.expires_at,
			updated_at=excluded.updated_at`,
		meta.VideoID,
		meta.Title,
		string(languagesJSON),
		expiresAt,
		updatedAt,
	)
	return err
}

func (s *SQLiteStore) GetVideoMeta(ctx context.Context, videoID string, now time.Time) (VideoMeta, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT video_id, title, languages_json, expires_at, updated_at
		 FROM video_meta_cache
		 WHERE video_id = ? AND expires_at > ?`,
		videoID,
		now.UTC(),
	)

	var ret VideoMeta
	var languagesJSON string
	if err := row.Scan(
		&ret.VideoID,
		&ret.Title,
		&languagesJSON,
		&ret.ExpiresAt,
		&ret.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return VideoMeta{}, false, nil
		}
		return VideoMeta{}, false, err
	}
	if err := json.Unmarshal([]byte(languagesJSON), &ret.Languages); err != nil {
		return VideoMeta{}, false, err
	}
	return ret, true, nil
}

func (s *SQLiteStore) DeleteVideoMeta(ctx context.Context, videoID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM video_meta_cache WHERE video_id = ?`, videoID)
	return err
}

// DeleteExpiredVideoMeta removes video_meta_cache rows whose expires_at is before now.
func (s *SQLiteStore) DeleteExpiredVideoMeta(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM video_meta_cache WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
