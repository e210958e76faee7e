// 掲示板サービスのエントリポイント。
// 会員登録・ログインと投稿・コメント・いいねのAPIを提供する。
// 認証が必要なルートはCookieで受け取ったトークンを認証ゲートウェイで検証する。
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/board/internal/board"
	"github.com/nao1215/board/pkg/config"
	"github.com/nao1215/board/pkg/logging"
	"github.com/nao1215/board/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "board.yaml", "設定ファイルのパス")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Error("掲示板サービスが異常終了しました", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := board.NewServer(ctx, cfg, logger, metrics.New())
	if err != nil {
		return err
	}
	defer server.Close() //nolint:errcheck

	return server.Run(ctx)
}
