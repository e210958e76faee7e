package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	boarddb "github.com/nao1215/board/internal/board/db"
	"github.com/nao1215/board/pkg/auth"
	"github.com/nao1215/board/pkg/config"
	"github.com/nao1215/board/pkg/metrics"
	"github.com/nao1215/board/pkg/middleware"
	"go.uber.org/zap"
)

// shutdownTimeout は停止時に処理中のリクエストを待つ時間。
const shutdownTimeout = 10 * time.Second

// Server は掲示板サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はsqlcが生成したクエリ実行オブジェクト。
	queries *boarddb.Queries
	// db はSQLiteデータベース接続。
	db *sql.DB
	// store はユーザーの資格情報ストア。
	store *credentialStore
	// codec はトークンの発行と検証を行う。
	codec *auth.Codec
	// gateway は認証が必要なルートの入口。
	gateway *auth.Gateway
	// metrics はPrometheusメトリクス。
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewServer は新しい掲示板サーバーを生成する。
// SQLiteデータベースを開き、マイグレーションを適用する。
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Server, error) {
	db, err := OpenDB(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(ctx, db, logger.Named("migration")); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	s, err := newServer(cfg, db, logger, m)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// newServer は開済みのデータベースからサーバーを組み立てる。
func newServer(cfg *config.Config, db *sql.DB, logger *zap.Logger, m *metrics.Metrics) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}

	codec, err := auth.NewCodec(auth.CodecConfig{Secret: []byte(cfg.Auth.Secret)})
	if err != nil {
		return nil, fmt.Errorf("トークンコーデックの初期化に失敗: %w", err)
	}

	queries := boarddb.New(db)
	store := newCredentialStore(db, queries)
	gateway := auth.NewGateway(codec, store,
		auth.WithCarrier(auth.Carrier{Secure: cfg.Auth.SecureCookie}),
		auth.WithLogger(logger.Named("auth")),
		auth.WithObserver(func(k auth.Kind) {
			m.ObserveAuth(k.String())
		}),
	)

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.Observe(m.ObserveRequest))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	s := &Server{
		router:  router,
		port:    cfg.Server.Port,
		queries: queries,
		db:      db,
		store:   store,
		codec:   codec,
		gateway: gateway,
		metrics: m,
		logger:  logger,
	}
	s.setupRoutes(cfg.Metrics.Enabled)

	return s, nil
}

// Handler はHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctx がキャンセルされるまで待つ。
// キャンセル後は処理中のリクエストを待ってから停止する。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("掲示板サービスを起動します", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("掲示板サービスを停止します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("サーバーの停止に失敗: %w", err)
	}
	return nil
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes(enableMetrics bool) {
	api := s.router.Group("/api")
	{
		// 会員登録
		api.POST("/signup", s.handleSignup())
		// ログイン
		api.POST("/login", s.handleLogin())
		// ログアウト
		api.DELETE("/logout", s.handleLogout())
		// 投稿一覧
		api.GET("/posts", s.handleListPosts())
		// 投稿詳細
		api.GET("/posts/:postId", s.handleGetPost())
		// コメント一覧
		api.GET("/posts/:postId/comments", s.handleListComments())
	}

	authed := api.Group("", middleware.Auth(s.gateway))
	{
		authed.DELETE("/signout", s.handleSignout())
		authed.GET("/users/me", s.handleMe())

		authed.POST("/posts", s.handleCreatePost())
		authed.PATCH("/posts/:postId", s.handleUpdatePost())
		authed.DELETE("/posts/:postId", s.handleDeletePost())

		authed.POST("/posts/:postId/comments", s.handleCreateComment())
		authed.PUT("/posts/:postId/comments/:commentId", s.handleUpdateComment())
		authed.DELETE("/posts/:postId/comments/:commentId", s.handleDeleteComment())

		authed.PUT("/posts/:postId/like", s.handleToggleLike())
		authed.GET("/likes/posts", s.handleListLikedPosts())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "board"})
	})

	if enableMetrics {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}
