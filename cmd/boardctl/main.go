// 掲示板APIのスモークチェックを行うCLI。
// 会員登録、ログイン、投稿作成、投稿一覧の取得を順に実行し、
// 認証Cookieが正しく引き継がれることを確認する。
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/board/pkg/httpclient"
	"go.uber.org/zap"
)

// messageResponse は成功時のレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// postListResponse は投稿一覧のレスポンス。
type postListResponse struct {
	Posts []struct {
		PostID   int64  `json:"postId"`
		Nickname string `json:"nickname"`
		Title    string `json:"title"`
	} `json:"posts"`
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:3001", "掲示板サービスのベースURL")
	timeout := flag.Duration("timeout", 30*time.Second, "スモークチェック全体のタイムアウト")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := smoke(ctx, httpclient.New(*baseURL), logger); err != nil {
		logger.Error("スモークチェックに失敗しました", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("スモークチェックに成功しました", zap.String("base_url", *baseURL))
}

// smoke は会員登録からログイン、投稿作成、一覧取得までを実行する。
// 作成した投稿が一覧の先頭に現れない場合はエラーを返す。
func smoke(ctx context.Context, client *httpclient.Client, logger *zap.Logger) error {
	runID := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	nickname := "smoke" + runID
	password := "check" + runID[:6]
	title := "smoke check " + runID

	ctx = httpclient.WithRequestID(ctx, runID)

	steps := []struct {
		name string
		call func(*messageResponse) error
	}{
		{"会員登録", func(res *messageResponse) error {
			return client.PostJSON(ctx, "/api/signup", map[string]any{
				"email":           nickname + "@example.com",
				"nickname":        nickname,
				"password":        password,
				"confirmPassword": password,
				"name":            "smoke",
				"age":             20,
				"gender":          "other",
			}, res)
		}},
		{"ログイン", func(res *messageResponse) error {
			return client.PostJSON(ctx, "/api/login", map[string]string{
				"nickname": nickname,
				"password": password,
			}, res)
		}},
		{"投稿作成", func(res *messageResponse) error {
			return client.PostJSON(ctx, "/api/posts", map[string]string{
				"title":   title,
				"content": "boardctl によるスモークチェック",
			}, res)
		}},
	}
	for _, step := range steps {
		var res messageResponse
		if err := step.call(&res); err != nil {
			return fmt.Errorf("%sに失敗: %w", step.name, err)
		}
		logger.Info(step.name, zap.String("message", res.Message))
	}

	var list postListResponse
	if err := client.GetJSON(ctx, "/api/posts", &list); err != nil {
		return fmt.Errorf("投稿一覧の取得に失敗: %w", err)
	}
	if len(list.Posts) == 0 || list.Posts[0].Title != title || list.Posts[0].Nickname != nickname {
		return fmt.Errorf("作成した投稿が一覧の先頭にありません: %+v", list.Posts)
	}
	logger.Info("投稿一覧", zap.Int("count", len(list.Posts)), zap.Int64("post_id", list.Posts[0].PostID))
	return nil
}
