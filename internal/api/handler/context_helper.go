package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kredenk/shiguang-warehouse/pkg/response"
)

// ownerIDKey 由 middleware.JWTAuth 写入
const ownerIDKey = "owner_id"

// MustGetOwnerID 取出当前请求的课表归属者。
// 取不到时已写入 401，调用方直接 return
func MustGetOwnerID(c *gin.Context) (string, bool) {
	if owner := c.GetString(ownerIDKey); owner != "" {
		return owner, true
	}
	response.Unauthorized(c, 10002, "未认证")
	return "", false
}
