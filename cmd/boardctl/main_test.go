package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/board/internal/board"
	"github.com/nao1215/board/pkg/config"
	"github.com/nao1215/board/pkg/httpclient"
	"github.com/nao1215/board/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newBoardServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0"},
		Database: config.DatabaseConfig{Path: ":memory:"},
		Auth:     config.AuthConfig{Secret: "boardctl-test-secret"},
		Log:      config.LogConfig{Level: "debug", Format: "console"},
	}
	s, err := board.NewServer(t.Context(), cfg, zap.NewNop(), metrics.New())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// TestSmoke はスモークチェックを検証する。
func TestSmoke(t *testing.T) {
	t.Parallel()

	t.Run("稼働中のサーバーに対して成功すること", func(t *testing.T) {
		t.Parallel()

		ts := newBoardServer(t)
		core, logs := observer.New(zap.InfoLevel)

		err := smoke(t.Context(), httpclient.New(ts.URL), zap.New(core))
		require.NoError(t, err)

		for _, msg := range []string{"会員登録", "ログイン", "投稿作成", "投稿一覧"} {
			assert.Equal(t, 1, logs.FilterMessage(msg).Len(), msg)
		}
		assert.Equal(t, "로그인 성공", logs.FilterMessage("ログイン").All()[0].ContextMap()["message"])
	})

	t.Run("認証に失敗した場合はステータスコード付きのエラーになること", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Path == "/api/posts" {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"errorMessage":"로그인이 필요한 기능입니다."}`))
				return
			}
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		}))
		t.Cleanup(ts.Close)

		err := smoke(t.Context(), httpclient.New(ts.URL), zap.NewNop())
		require.Error(t, err)
		status, ok := httpclient.StatusCode(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Contains(t, err.Error(), "投稿作成に失敗")
	})
}
