// Package migration はSQLiteのスキーマを埋め込みのSQLファイルから構築する。
//
// ファイル名は "<バージョン>_<名前>.up.sql"（例: 000001_init.up.sql）。
// 適用したバージョンは schema_migrations テーブルに名前と一緒に記録する。
package migration

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const upSuffix = ".up.sql"

// Record は適用済みのマイグレーション。
type Record struct {
	Version   int
	Name      string
	AppliedAt time.Time
}

// Migrator は1つのディレクトリのマイグレーションを1つのデータベースに適用する。
type Migrator struct {
	db     *sql.DB
	fsys   fs.FS
	dir    string
	logger *zap.Logger
}

// New は Migrator を生成する。logger が nil の場合はログを出力しない。
func New(db *sql.DB, fsys fs.FS, dir string, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{db: db, fsys: fsys, dir: dir, logger: logger}
}

// Run は未適用のマイグレーションをバージョン順に適用する。
func Run(ctx context.Context, db *sql.DB, fsys fs.FS, dir string, logger *zap.Logger) error {
	return New(db, fsys, dir, logger).Up(ctx)
}

// Up は未適用のマイグレーションをバージョン順に1件ずつトランザクション内で適用する。
// 途中で失敗した場合、それ以前に適用したものは残る。
func (m *Migrator) Up(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
)`); err != nil {
		return fmt.Errorf("schema_migrations の作成に失敗: %w", err)
	}

	files, err := m.pending(ctx)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := m.apply(ctx, f); err != nil {
			return fmt.Errorf("マイグレーション %06d_%s の適用に失敗: %w", f.version, f.name, err)
		}
		m.logger.Info("マイグレーションを適用しました",
			zap.Int("version", f.version),
			zap.String("name", f.name),
		)
	}
	return nil
}

// Applied は適用済みのマイグレーションをバージョンの昇順で返す。
// schema_migrations が無い場合は空を返す。
func (m *Migrator) Applied(ctx context.Context) ([]Record, error) {
	var exists int
	if err := m.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'",
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("schema_migrations の確認に失敗: %w", err)
	}
	if exists == 0 {
		return nil, nil
	}

	rows, err := m.db.QueryContext(ctx, "SELECT version, name, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("適用済みバージョンの取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Version, &r.Name, &r.AppliedAt); err != nil {
			return nil, fmt.Errorf("適用済みバージョンの読み取りに失敗: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

type sqlFile struct {
	version int
	name    string
	path    string
}

// pending は未適用のファイルをバージョン順に返す。
func (m *Migrator) pending(ctx context.Context) ([]sqlFile, error) {
	files, err := m.scan()
	if err != nil {
		return nil, err
	}
	records, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}

	done := make(map[int]struct{}, len(records))
	for _, r := range records {
		done[r.Version] = struct{}{}
	}
	return slices.DeleteFunc(files, func(f sqlFile) bool {
		_, ok := done[f.version]
		return ok
	}), nil
}

// scan はディレクトリから *.up.sql を集めてバージョン順に並べる。
// 接頭辞が数値でないファイルは無視し、バージョンの重複はエラーにする。
func (m *Migrator) scan() ([]sqlFile, error) {
	entries, err := fs.ReadDir(m.fsys, m.dir)
	if err != nil {
		return nil, fmt.Errorf("ディレクトリ %s の読み込みに失敗: %w", m.dir, err)
	}

	var files []sqlFile
	for _, entry := range entries {
		base, ok := strings.CutSuffix(entry.Name(), upSuffix)
		if entry.IsDir() || !ok {
			continue
		}
		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		files = append(files, sqlFile{version: version, name: name, path: path.Join(m.dir, entry.Name())})
	}

	slices.SortFunc(files, func(a, b sqlFile) int { return cmp.Compare(a.version, b.version) })
	for i := 1; i < len(files); i++ {
		if files[i].version == files[i-1].version {
			return nil, fmt.Errorf("バージョン %06d が重複しています: %s, %s",
				files[i].version, path.Base(files[i-1].path), path.Base(files[i].path))
		}
	}
	return files, nil
}

func (m *Migrator) apply(ctx context.Context, f sqlFile) error {
	body, err := fs.ReadFile(m.fsys, f.path)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)", f.version, f.name,
	); err != nil {
		return err
	}
	return tx.Commit()
}
