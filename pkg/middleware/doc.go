// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// 認証ゲートウェイ（pkg/auth）の判定結果をレスポンスに変換するアダプタ、
// リクエストログ、パニックリカバリ、CORS設定などを含む。
package middleware
