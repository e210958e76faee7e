// Package httpclient は掲示板APIを呼び出すHTTPクライアントを提供する。
//
// boardctl のスモークチェックで使用する。
// ログイン時に発行される認証Cookieをジャーで保持し、以降の呼び出しに引き継ぐ。
package httpclient
