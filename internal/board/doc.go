// Package board は掲示板サービスの内部実装を提供する。
//
// 会員登録・ログイン、投稿、コメント、いいねのHTTP APIを提供する。
// 認証が必要なルートは pkg/auth の Gateway を通過したリクエストのみを受け付け、
// ハンドラはリクエストコンテキストから認証済みユーザーを取り出して処理する。
package board
