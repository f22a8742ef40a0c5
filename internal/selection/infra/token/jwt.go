package token

import (
	"errors"
	"time"

	"Coordinator/internal/shared/security"
)

var ErrMissingSID = errors.New("token has no sid claim")

// JWT 会话 token，签名密钥取自 JWT_SECRET。
type JWT struct {
	ttl time.Duration
}

func NewJWT(ttl time.Duration) *JWT {
	return &JWT{ttl: ttl}
}

func (j *JWT) Issue(sid int64) (string, error) {
	return security.Award(sid, j.ttl)
}

func (j *JWT) Parse(token string) (int64, error) {
	_, claims, err := security.ParseToken(token)
	if err != nil {
		return 0, err
	}
	if claims.SID == 0 {
		return 0, ErrMissingSID
	}
	return claims.SID, nil
}
