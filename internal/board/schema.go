package board

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/nao1215/board/pkg/migration"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// memoryPath はインメモリデータベースを表すパス。
const memoryPath = ":memory:"

// OpenDB はSQLiteデータベースを開く。外部キー制約とビジー待機を有効にする。
// インメモリの場合は接続ごとに別のデータベースになるため、接続数を1に制限する。
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	if path == memoryPath || strings.Contains(path, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// initSchema は埋め込みのマイグレーションを適用し、現在のスキーマバージョンをログに残す。
func initSchema(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	m := migration.New(db, migrationsFS, "migrations", logger)
	if err := m.Up(ctx); err != nil {
		return fmt.Errorf("スキーマの適用に失敗: %w", err)
	}

	records, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if n := len(records); n > 0 {
		logger.Debug("スキーマバージョン", zap.Int("version", records[n-1].Version), zap.String("name", records[n-1].Name))
	}
	return nil
}
