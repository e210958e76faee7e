package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// memoryFinder はテスト用のインメモリ IdentityFinder。
type memoryFinder struct {
	mu    sync.Mutex
	users map[int64]Identity
	err   error
	panic bool
}

func newMemoryFinder(ids ...Identity) *memoryFinder {
	f := &memoryFinder{users: make(map[int64]Identity)}
	for _, id := range ids {
		f.users[id.UserID] = id
	}
	return f
}

func (f *memoryFinder) FindIdentity(_ context.Context, userID int64) (Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panic {
		panic("テスト用パニック")
	}
	if f.err != nil {
		return Identity{}, f.err
	}
	id, ok := f.users[userID]
	if !ok {
		return Identity{}, ErrIdentityNotFound
	}
	return id, nil
}

func (f *memoryFinder) delete(userID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, userID)
}

// newRequest は指定したCookie値を持つリクエストを生成する。空文字の場合はCookie無し。
func newRequest(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: value, Quoted: true})
	}
	return req
}

// TestGatewayAuthenticate は認証状態遷移の各終端を検証する。
func TestGatewayAuthenticate(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	alice := Identity{UserID: 42, Nickname: "alice", Email: "alice@example.com"}

	t.Run("Cookieが無い場合はNoSession(403)になること", func(t *testing.T) {
		t.Parallel()

		gw := NewGateway(newTestCodec(t, issuedAt), newMemoryFinder(alice))
		res := gw.Authenticate(newRequest(""))

		if res.Kind != KindNoSession {
			t.Errorf("Kind = %v, want %v", res.Kind, KindNoSession)
		}
		if res.Status() != http.StatusForbidden {
			t.Errorf("Status = %d, want %d", res.Status(), http.StatusForbidden)
		}
		if res.Kind.ClearsCarrier() {
			t.Error("NoSessionでCookieを削除してはならない")
		}
	})

	t.Run("Basic種別はSchemeMismatch(401)になること", func(t *testing.T) {
		t.Parallel()

		gw := NewGateway(newTestCodec(t, issuedAt), newMemoryFinder(alice))
		res := gw.Authenticate(newRequest("Basic abc123"))

		if res.Kind != KindSchemeMismatch {
			t.Errorf("Kind = %v, want %v", res.Kind, KindSchemeMismatch)
		}
		if res.Status() != http.StatusUnauthorized {
			t.Errorf("Status = %d, want %d", res.Status(), http.StatusUnauthorized)
		}
	})

	t.Run("分割できない値はSchemeMismatchになること", func(t *testing.T) {
		t.Parallel()

		gw := NewGateway(newTestCodec(t, issuedAt), newMemoryFinder(alice))
		res := gw.Authenticate(newRequest("Bearer"))
		if res.Kind != KindSchemeMismatch {
			t.Errorf("Kind = %v, want %v", res.Kind, KindSchemeMismatch)
		}
	})

	t.Run("種別の確認は署名の確認より先に行われること", func(t *testing.T) {
		t.Parallel()

		token, err := newTestCodec(t, issuedAt).Issue(alice.UserID)
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}
		gw := NewGateway(newTestCodec(t, issuedAt), newMemoryFinder(alice))
		if res := gw.Authenticate(newRequest("bearer " + token)); res.Kind != KindSchemeMismatch {
			t.Errorf("Kind = %v, want %v", res.Kind, KindSchemeMismatch)
		}
	})

	t.Run("期限切れトークンはExpired(403)になりCookie削除対象になること", func(t *testing.T) {
		t.Parallel()

		token, err := newTestCodec(t, issuedAt).Issue(alice.UserID)
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}

		later := newTestCodec(t, issuedAt.Add(TokenTTL+time.Minute))
		res := NewGateway(later, newMemoryFinder(alice)).Authenticate(newRequest("Bearer " + token))

		if res.Kind != KindExpired {
			t.Errorf("Kind = %v, want %v", res.Kind, KindExpired)
		}
		if res.Status() != http.StatusForbidden {
			t.Errorf("Status = %d, want %d", res.Status(), http.StatusForbidden)
		}
		if !res.Kind.ClearsCarrier() {
			t.Error("ExpiredではCookieを削除すべき")
		}
	})

	t.Run("不正なトークンはInvalid(401)になること", func(t *testing.T) {
		t.Parallel()

		gw := NewGateway(newTestCodec(t, issuedAt), newMemoryFinder(alice))
		res := gw.Authenticate(newRequest("Bearer invalid-token-string"))

		if res.Kind != KindInvalid {
			t.Errorf("Kind = %v, want %v", res.Kind, KindInvalid)
		}
		if res.Status() != http.StatusUnauthorized {
			t.Errorf("Status = %d, want %d", res.Status(), http.StatusUnauthorized)
		}
		if !res.Kind.ClearsCarrier() {
			t.Error("InvalidではCookieを削除すべき")
		}
	})

	t.Run("削除済みユーザーのトークンはStaleIdentity(401)になること", func(t *testing.T) {
		t.Parallel()

		codec := newTestCodec(t, issuedAt)
		finder := newMemoryFinder(alice)
		token, err := codec.Issue(alice.UserID)
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}
		finder.delete(alice.UserID)

		res := NewGateway(codec, finder).Authenticate(newRequest("Bearer " + token))
		if res.Kind != KindStaleIdentity {
			t.Errorf("Kind = %v, want %v", res.Kind, KindStaleIdentity)
		}
		if res.Status() != http.StatusUnauthorized {
			t.Errorf("Status = %d, want %d", res.Status(), http.StatusUnauthorized)
		}
		if !res.Kind.ClearsCarrier() {
			t.Error("StaleIdentityではCookieを削除すべき")
		}
	})

	t.Run("有効なトークンではIdentityが返ること", func(t *testing.T) {
		t.Parallel()

		codec := newTestCodec(t, issuedAt)
		token, err := codec.Issue(alice.UserID)
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}

		res := NewGateway(codec, newMemoryFinder(alice)).Authenticate(newRequest("Bearer " + token))
		if !res.Authorized() {
			t.Fatalf("認証に失敗: kind=%v, cause=%v", res.Kind, res.Cause)
		}
		if res.Identity != alice {
			t.Errorf("Identity = %+v, want %+v", res.Identity, alice)
		}
	})

	t.Run("ストア障害はInvalid(401)に変換されること", func(t *testing.T) {
		t.Parallel()

		codec := newTestCodec(t, issuedAt)
		token, err := codec.Issue(alice.UserID)
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}
		finder := newMemoryFinder(alice)
		finder.err = errors.New("database is locked")

		res := NewGateway(codec, finder).Authenticate(newRequest("Bearer " + token))
		if res.Kind != KindInvalid {
			t.Errorf("Kind = %v, want %v", res.Kind, KindInvalid)
		}
		if res.Cause == nil {
			t.Error("Causeが設定されていない")
		}
	})

	t.Run("パニックはInvalidに変換されること", func(t *testing.T) {
		t.Parallel()

		codec := newTestCodec(t, issuedAt)
		token, err := codec.Issue(alice.UserID)
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}
		finder := newMemoryFinder(alice)
		finder.panic = true

		res := NewGateway(codec, finder).Authenticate(newRequest("Bearer " + token))
		if res.Kind != KindInvalid {
			t.Errorf("Kind = %v, want %v", res.Kind, KindInvalid)
		}
	})

	t.Run("認証結果がObserverに通知されること", func(t *testing.T) {
		t.Parallel()

		var got []Kind
		gw := NewGateway(newTestCodec(t, issuedAt), newMemoryFinder(alice), WithObserver(func(k Kind) {
			got = append(got, k)
		}))
		gw.Authenticate(newRequest(""))
		gw.Authenticate(newRequest("Basic abc123"))

		if len(got) != 2 || got[0] != KindNoSession || got[1] != KindSchemeMismatch {
			t.Errorf("通知 = %v, want [no_session scheme_mismatch]", got)
		}
	})
}

// TestKind は拒否理由ごとのステータスとメッセージを検証する。
func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind   Kind
		status int
		name   string
		clears bool
	}{
		{KindNoSession, http.StatusForbidden, "no_session", false},
		{KindSchemeMismatch, http.StatusUnauthorized, "scheme_mismatch", false},
		{KindExpired, http.StatusForbidden, "expired", true},
		{KindInvalid, http.StatusUnauthorized, "invalid", true},
		{KindStaleIdentity, http.StatusUnauthorized, "stale_identity", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.kind.Status() != tt.status {
				t.Errorf("Status() = %d, want %d", tt.kind.Status(), tt.status)
			}
			if tt.kind.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.kind.String(), tt.name)
			}
			if tt.kind.ClearsCarrier() != tt.clears {
				t.Errorf("ClearsCarrier() = %v, want %v", tt.kind.ClearsCarrier(), tt.clears)
			}
			if tt.kind.Message() == "" {
				t.Error("Message()が空")
			}
		})
	}
}

// TestIdentityContext はコンテキストへのIdentityの格納を検証する。
func TestIdentityContext(t *testing.T) {
	t.Parallel()

	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Error("空のコンテキストでtrueが返された")
	}

	want := Identity{UserID: 1, Nickname: "bob", Email: "bob@example.com"}
	got, ok := IdentityFromContext(WithIdentity(context.Background(), want))
	if !ok || got != want {
		t.Errorf("IdentityFromContext() = (%+v, %v), want (%+v, true)", got, ok, want)
	}
}
