package auth

import "context"

// Identity は検証済みリクエストに紐づくユーザーのスナップショット。
// 1リクエストの間は変更されない。
type Identity struct {
	// UserID はユーザーの一意識別子。
	UserID int64 `json:"userId"`
	// Nickname はユーザーのニックネーム。
	Nickname string `json:"nickname"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
}

type contextKey string

// identityContextKey はリクエストコンテキストに Identity を格納するためのキー。
const identityContextKey contextKey = "auth_identity"

// WithIdentity はコンテキストに Identity を設定する。
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext はコンテキストから Identity を取り出す。
// Gateway を通過していないリクエストでは false を返す。
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}
