package auth

import (
	"net/http"
	"strings"
)

const (
	// CookieName はトークンを運ぶCookieの名前。
	CookieName = "authorization"
	// Scheme はCookie値の先頭に付くトークン種別。
	Scheme = "Bearer"
)

// Carrier は "authorization" Cookie を介してトークンを受け渡す。
type Carrier struct {
	// Secure はCookieにSecure属性を付けるかどうか。
	Secure bool
}

// Extract はリクエストからCookie値を取り出す。
// Cookieが無い、または値が空の場合は false を返す。
func (c Carrier) Extract(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// ParseValue はCookie値を最初の空白で種別とトークンに分割する。
// どちらかが空、またはトークンに空白が残る場合は ErrInvalidCarrier を返す。
func ParseValue(value string) (scheme, token string, err error) {
	scheme, token, found := strings.Cut(value, " ")
	if !found || scheme == "" || token == "" || strings.ContainsRune(token, ' ') {
		return "", "", ErrInvalidCarrier
	}
	return scheme, token, nil
}

// Attach はレスポンスに "Bearer <token>" を値とするCookieを設定する。
// 有効期限は付けない（セッションCookie）。期限はトークン側で管理する。
func (c Carrier) Attach(w http.ResponseWriter, token string) {
	setCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    Scheme + " " + token,
		Path:     "/",
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear はレスポンスでCookieを削除する。
// 何度呼んでも Set-Cookie ヘッダーは1つだけになる。
func (c Carrier) Clear(w http.ResponseWriter) {
	setCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// setCookie は同名Cookieの既存の Set-Cookie を置き換えてから追加する。
func setCookie(w http.ResponseWriter, cookie *http.Cookie) {
	header := w.Header()
	prefix := cookie.Name + "="
	var kept []string
	for _, v := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	header.Del("Set-Cookie")
	for _, v := range kept {
		header.Add("Set-Cookie", v)
	}
	http.SetCookie(w, cookie)
}
