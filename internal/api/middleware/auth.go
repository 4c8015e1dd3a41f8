package middleware

import (
	"Feedcore/internal/pkg/consts"
	"Feedcore/internal/pkg/redis"
	"Feedcore/internal/pkg/response"
	"Feedcore/internal/pkg/security"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxUserID 当前用户 ID 在 gin.Context 中的键，匿名访问时为 0
const CtxUserID = "user_id"

const bearerPrefix = "Bearer "

// AuthMiddleware 要求合法且未注销的 Token，并注入用户 ID
func AuthMiddleware(j *security.JWT, client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abort(c, response.Unauthorized, "Token 缺失或格式错误")
			return
		}

		revoked, err := isRevoked(c, client, token)
		if err != nil {
			log.ErrorContext(c.Request.Context(), "check revoked token error", "err", err)
			abort(c, response.InternalServerError, "未知错误")
			return
		}
		if revoked {
			abort(c, response.Unauthorized, "Token 无效或已过期")
			return
		}

		claims, err := j.ValidateToken(token)
		if err != nil {
			abort(c, response.Unauthorized, "Token 无效或已过期")
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Next()
	}
}

// AuthOptionalMiddleware 可选鉴权，Token 缺失、无效或已注销时按匿名用户处理
func AuthOptionalMiddleware(j *security.JWT, client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxUserID, uint64(0))
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		if revoked, err := isRevoked(c, client, token); err != nil || revoked {
			c.Next()
			return
		}
		if claims, err := j.ValidateToken(token); err == nil {
			c.Set(CtxUserID, claims.UserID)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}

// isRevoked 注销的 Token 以签名为键记录在 Redis 中
func isRevoked(c *gin.Context, client *redis.Client, token string) (bool, error) {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return true, nil
	}
	value, err := client.GetValue(c.Request.Context(), consts.TokenRevokedKey+signature)
	if err != nil {
		return false, err
	}
	return value != "", nil
}

func abort(c *gin.Context, code int, message string) {
	response.Fail(c, code, message)
	c.Abort()
}
