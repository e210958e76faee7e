package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// IdentityFinder はユーザーIDから Identity を解決する。
// ユーザーが存在しない場合は ErrIdentityNotFound を返すこと。
type IdentityFinder interface {
	FindIdentity(ctx context.Context, userID int64) (Identity, error)
}

// TokenVerifier はトークンを検証してユーザーIDを返す。
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// Result は Gateway による1リクエスト分の認証結果。
// Kind が KindAuthorized の場合のみ Identity が有効。
type Result struct {
	// Kind は認証結果の種類。
	Kind Kind
	// Identity は認証済みユーザー。
	Identity Identity
	// Cause は拒否の原因となったエラー。ログ出力用でクライアントには返さない。
	Cause error
}

// Authorized は認証に成功したかを返す。
func (r Result) Authorized() bool {
	return r.Kind == KindAuthorized
}

// Status はHTTPステータスコードを返す。
func (r Result) Status() int {
	return r.Kind.Status()
}

func rejected(kind Kind, cause error) Result {
	return Result{Kind: kind, Cause: cause}
}

// Gateway は Carrier・TokenVerifier・IdentityFinder を組み合わせてリクエストを認証する。
type Gateway struct {
	carrier  Carrier
	verifier TokenVerifier
	finder   IdentityFinder
	logger   *zap.Logger
	observe  func(Kind)
}

// GatewayOption は Gateway の生成オプション。
type GatewayOption func(*Gateway)

// WithCarrier は Cookie の設定を差し替える。
func WithCarrier(c Carrier) GatewayOption {
	return func(g *Gateway) {
		g.carrier = c
	}
}

// WithLogger はロガーを設定する。
func WithLogger(l *zap.Logger) GatewayOption {
	return func(g *Gateway) {
		g.logger = l
	}
}

// WithObserver は認証結果ごとに呼ばれるコールバックを設定する。
func WithObserver(fn func(Kind)) GatewayOption {
	return func(g *Gateway) {
		g.observe = fn
	}
}

// NewGateway は新しい Gateway を生成する。
func NewGateway(verifier TokenVerifier, finder IdentityFinder, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		verifier: verifier,
		finder:   finder,
		logger:   zap.NewNop(),
		observe:  func(Kind) {},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Carrier は Gateway が使用する Carrier を返す。
func (g *Gateway) Carrier() Carrier {
	return g.carrier
}

// Authenticate はリクエストを認証する。
// 判定順序は Cookie の有無、種別、署名と有効期限、ユーザーの存在の順で固定。
// 途中で発生したパニックは KindInvalid に変換する。
func (g *Gateway) Authenticate(r *http.Request) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = rejected(KindInvalid, fmt.Errorf("認証処理中にパニックが発生: %v", rec))
		}
		g.report(r, res)
	}()

	value, ok := g.carrier.Extract(r)
	if !ok {
		return rejected(KindNoSession, nil)
	}

	scheme, token, err := ParseValue(value)
	if err != nil {
		return rejected(KindSchemeMismatch, err)
	}
	if scheme != Scheme {
		return rejected(KindSchemeMismatch, fmt.Errorf("想定外のトークン種別: %q", scheme))
	}

	userID, err := g.verifier.Verify(token)
	switch {
	case errors.Is(err, ErrExpired):
		return rejected(KindExpired, err)
	case err != nil:
		return rejected(KindInvalid, err)
	}

	identity, err := g.finder.FindIdentity(r.Context(), userID)
	switch {
	case errors.Is(err, ErrIdentityNotFound):
		return rejected(KindStaleIdentity, err)
	case err != nil:
		return rejected(KindInvalid, fmt.Errorf("ユーザーの取得に失敗: %w", err))
	}

	return Result{Kind: KindAuthorized, Identity: identity}
}

// report は認証結果をログとコールバックに通知する。
func (g *Gateway) report(r *http.Request, res Result) {
	g.observe(res.Kind)
	if res.Authorized() {
		return
	}

	fields := []zap.Field{
		zap.String("kind", res.Kind.String()),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if res.Cause != nil {
		fields = append(fields, zap.Error(res.Cause))
	}
	if res.Kind == KindInvalid && res.Cause != nil && !errors.Is(res.Cause, ErrMalformed) {
		g.logger.Warn("認証処理で想定外のエラーが発生しました", fields...)
		return
	}
	g.logger.Debug("認証を拒否しました", fields...)
}
