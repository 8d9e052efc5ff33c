package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kredenk/shiguang-warehouse/pkg/jwt"
	"github.com/Kredenk/shiguang-warehouse/pkg/response"
)

// ownerIDKey 课表数据归属者在 gin.Context 中的键
const ownerIDKey = "owner_id"

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取 Access Token，并将 owner_id 注入上下文
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		c.Set(ownerIDKey, claims.OwnerID)
		c.Next()
	}
}
