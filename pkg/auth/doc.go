// Package auth はCookieで運ばれるBearerトークンによる認証ゲートウェイを提供する。
//
// 次の3つの部品から構成される。
//   - Codec: ユーザーIDを埋め込んだ署名付きトークン（HS256 JWT）の発行と検証
//   - Carrier: "authorization" Cookie からのトークン取り出し、付与、削除
//   - Gateway: Carrier・Codec・IdentityFinder を順に呼び出し、
//     リクエストごとに Result（認証済みの Identity または拒否理由）を返す
//
// Gateway 自体はHTTPフレームワークに依存しない。Result をレスポンスへ
// 変換するのは呼び出し側のアダプタ（pkg/middleware.Auth）の責務である。
package auth
