package security

import (
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "Feedcore"

// UserClaims Token 中的业务信息
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}
