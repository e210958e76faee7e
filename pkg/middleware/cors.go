package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// corsAllowMethods はプリフライトで許可するメソッド。掲示板APIが使うものに限る。
var corsAllowMethods = strings.Join([]string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}, ", ")

// CORS は許可リストのオリジンにだけクロスオリジンアクセスを認めるGinミドルウェアを返す。
// 認証Cookieを送れるよう Allow-Credentials を付け、X-Request-ID をブラウザから読めるようにする。
// プリフライトは許可リスト外のオリジンなら403、それ以外は204で応答し、ハンドラには渡さない。
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := slices.Clone(allowedOrigins)

	return func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Origin")
		origin := c.GetHeader("Origin")
		ok := origin != "" && slices.Contains(allowed, origin)
		if ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Expose-Headers", headerKeyRequestID)
		}

		if c.Request.Method != http.MethodOptions || c.GetHeader("Access-Control-Request-Method") == "" {
			c.Next()
			return
		}

		if !ok {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+headerKeyRequestID)
		c.Header("Access-Control-Max-Age", "600")
		c.AbortWithStatus(http.StatusNoContent)
	}
}
