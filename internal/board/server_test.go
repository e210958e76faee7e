package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/board/pkg/auth"
	"github.com/nao1215/board/pkg/config"
	"github.com/nao1215/board/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testSecret はテスト用のトークン秘密鍵。
const testSecret = "board-test-secret"

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: "0"},
		Database: config.DatabaseConfig{Path: memoryPath},
		Auth:     config.AuthConfig{Secret: testSecret},
		Log:      config.LogConfig{Level: "debug", Format: "console"},
		Metrics:  config.MetricsConfig{Enabled: true},
	}
}

// setupTestServer はテスト用の掲示板サーバーをインメモリSQLiteで構築する。
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := OpenDB(memoryPath)
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	if err := initSchema(context.Background(), db, zap.NewNop()); err != nil {
		t.Fatalf("スキーマ初期化に失敗: %v", err)
	}

	s, err := newServer(testConfig(), db, zap.NewNop(), metrics.New())
	if err != nil {
		t.Fatalf("サーバーの初期化に失敗: %v", err)
	}
	s.store.cost = bcrypt.MinCost
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// session はテスト用のクライアント。レスポンスのCookieを保持して次のリクエストに付与する。
type session struct {
	t      *testing.T
	s      *Server
	cookie *http.Cookie
}

func newSession(t *testing.T, s *Server) *session {
	return &session{t: t, s: s}
}

// do はリクエストを送信し、authorization Cookie の変更を反映する。
func (ss *session) do(method, path string, body any) *httptest.ResponseRecorder {
	ss.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			ss.t.Fatalf("リクエストボディのシリアライズに失敗: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ss.cookie != nil {
		req.AddCookie(ss.cookie)
	}

	w := httptest.NewRecorder()
	ss.s.Handler().ServeHTTP(w, req)

	if c := responseCookie(w); c != nil {
		if c.MaxAge < 0 {
			ss.cookie = nil
		} else {
			ss.cookie = c
		}
	}
	return w
}

// responseCookie はレスポンスの authorization Cookie を返す。
func responseCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range (&http.Response{Header: w.Header()}).Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

// cookieCleared はレスポンスが authorization Cookie を削除しているかを返す。
func cookieCleared(w *httptest.ResponseRecorder) bool {
	c := responseCookie(w)
	return c != nil && c.MaxAge < 0
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v, body=%s", err, w.Body.String())
	}
	return v
}

// expectError はステータスコードとエラーメッセージを検証する。
func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if w.Code != status {
		t.Errorf("ステータスコード = %d, want %d, body=%s", w.Code, status, w.Body.String())
	}
	if got := decode[map[string]string](t, w)["errorMessage"]; got != msg {
		t.Errorf("errorMessage = %q, want %q", got, msg)
	}
}

// expectMessage はステータスコードと成功メッセージを検証する。
func expectMessage(t *testing.T, w *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if w.Code != status {
		t.Errorf("ステータスコード = %d, want %d, body=%s", w.Code, status, w.Body.String())
	}
	if got := decode[map[string]string](t, w)["message"]; got != msg {
		t.Errorf("message = %q, want %q", got, msg)
	}
}

func signupBody(nickname string) map[string]any {
	return map[string]any{
		"email":           nickname + "@example.com",
		"nickname":        nickname,
		"password":        "pass1234",
		"confirmPassword": "pass1234",
		"name":            "テスト",
		"age":             20,
		"gender":          "female",
	}
}

// loggedIn は会員登録とログインを済ませたセッションを返す。
func loggedIn(t *testing.T, s *Server, nickname string) *session {
	t.Helper()

	ss := newSession(t, s)
	if w := ss.do(http.MethodPost, "/api/signup", signupBody(nickname)); w.Code != http.StatusCreated {
		t.Fatalf("会員登録に失敗: status=%d, body=%s", w.Code, w.Body.String())
	}
	w := ss.do(http.MethodPost, "/api/login", map[string]string{"nickname": nickname, "password": "pass1234"})
	if w.Code != http.StatusOK || ss.cookie == nil {
		t.Fatalf("ログインに失敗: status=%d, body=%s", w.Code, w.Body.String())
	}
	return ss
}

// createPost は投稿を作成してIDを返す。
func createPost(t *testing.T, ss *session, title string) int64 {
	t.Helper()

	if w := ss.do(http.MethodPost, "/api/posts", map[string]string{"title": title, "content": title + "の本文"}); w.Code != http.StatusCreated {
		t.Fatalf("投稿の作成に失敗: status=%d, body=%s", w.Code, w.Body.String())
	}
	w := ss.do(http.MethodGet, "/api/posts", nil)
	posts := decode[struct {
		Posts []postSummary `json:"posts"`
	}](t, w).Posts
	if len(posts) == 0 {
		t.Fatal("作成した投稿が一覧にない")
	}
	return posts[0].PostID
}

func postPath(id int64, rest ...string) string {
	p := fmt.Sprintf("/api/posts/%d", id)
	for _, r := range rest {
		p += r
	}
	return p
}

// TestHealth はヘルスチェックを検証する。
func TestHealth(t *testing.T) {
	t.Parallel()

	s := setupTestServer(t)
	w := newSession(t, s).do(http.MethodGet, "/health", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
	}
	body := decode[map[string]string](t, w)
	if body["status"] != "ok" || body["service"] != "board" {
		t.Errorf("body = %v", body)
	}
}

// TestMetricsEndpoint はメトリクスの公開を検証する。
func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := setupTestServer(t)
	ss := newSession(t, s)
	ss.do(http.MethodGet, "/api/users/me", nil)

	w := ss.do(http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{
		`board_auth_outcomes_total{outcome="no_session"} 1`,
		`board_http_requests_total{method="GET",route="/api/users/me",status="403"} 1`,
	} {
		if !bytes.Contains([]byte(body), []byte(want)) {
			t.Errorf("メトリクスに %q が含まれていない", want)
		}
	}
}
