package auth

import (
	"errors"
	"net/http"
)

var (
	// ErrExpired はトークンの有効期限が切れていることを表す。
	ErrExpired = errors.New("token has expired")
	// ErrMalformed はトークンが解析できない、または署名が一致しないことを表す。
	ErrMalformed = errors.New("token is malformed")
	// ErrIdentityNotFound はトークンが指すユーザーが存在しないことを表す。
	// IdentityFinder の実装はユーザー未検出時にこのエラーを返すこと。
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrInvalidCarrier は Cookie の値が "<scheme> <token>" 形式でないことを表す。
	ErrInvalidCarrier = errors.New("carrier value is malformed")
)

// Kind は Gateway による認証結果の種類。
type Kind uint8

const (
	// KindAuthorized は認証に成功したことを表す。
	KindAuthorized Kind = iota
	// KindNoSession は Cookie が存在しないことを表す。
	KindNoSession
	// KindSchemeMismatch はトークン種別が Bearer でないことを表す。
	KindSchemeMismatch
	// KindExpired はトークンの有効期限切れを表す。
	KindExpired
	// KindInvalid は署名不一致・不正な形式・想定外の障害を表す。
	KindInvalid
	// KindStaleIdentity はトークンは有効だがユーザーが削除済みであることを表す。
	KindStaleIdentity
)

// String はメトリクスやログで使用する識別子を返す。
func (k Kind) String() string {
	switch k {
	case KindAuthorized:
		return "authorized"
	case KindNoSession:
		return "no_session"
	case KindSchemeMismatch:
		return "scheme_mismatch"
	case KindExpired:
		return "expired"
	case KindInvalid:
		return "invalid"
	case KindStaleIdentity:
		return "stale_identity"
	default:
		return "unknown"
	}
}

// Status は拒否理由に対応するHTTPステータスコードを返す。
func (k Kind) Status() int {
	switch k {
	case KindAuthorized:
		return http.StatusOK
	case KindNoSession, KindExpired:
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}

// Message はクライアントに返すエラーメッセージを返す。
func (k Kind) Message() string {
	switch k {
	case KindAuthorized:
		return ""
	case KindNoSession:
		return "로그인이 필요한 기능입니다."
	case KindSchemeMismatch:
		return "토큰 타입이 일치하지 않습니다."
	case KindExpired:
		return "전달된 쿠키에서 오류가 발생하였습니다."
	case KindStaleIdentity:
		return "토큰 사용자가 존재하지 않습니다."
	default:
		return "비정상적인 요청입니다."
	}
}

// ClearsCarrier は拒否時に Cookie を削除すべきかを返す。
// 未ログイン（NoSession）と種別不一致では Cookie に触れない。
func (k Kind) ClearsCarrier() bool {
	switch k {
	case KindExpired, KindInvalid, KindStaleIdentity:
		return true
	default:
		return false
	}
}
