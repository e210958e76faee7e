package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nao1215/board/pkg/auth"
)

// contextKeyIdentity はGinコンテキストに認証済みユーザーを格納するキー。
const contextKeyIdentity = "identity"

// Auth は auth.Gateway の判定結果をHTTPレスポンスに変換するGinミドルウェアを返す。
// 拒否時は判定結果に応じてCookieを削除し、ステータスコードとメッセージを返して中断する。
// 認証成功時は Identity をGinコンテキストとリクエストコンテキストの両方に設定する。
func Auth(gw *auth.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := gw.Authenticate(c.Request)
		if !res.Authorized() {
			if res.Kind.ClearsCarrier() {
				gw.Carrier().Clear(c.Writer)
			}
			c.AbortWithStatusJSON(res.Status(), gin.H{
				"errorMessage": res.Kind.Message(),
			})
			return
		}

		c.Set(contextKeyIdentity, res.Identity)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), res.Identity))
		c.Next()
	}
}

// GetIdentity はGinコンテキストから認証済みユーザーを取得する。
// Authミドルウェアが事前に適用されている必要がある。
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(contextKeyIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
