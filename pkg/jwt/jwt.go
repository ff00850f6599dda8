package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims 백엔드 사용자 JWT 페이로드
// storage 권한(actions, mounts)을 토큰에 담아 요청마다 명시적으로 전달한다
type Claims struct {
	jwt.RegisteredClaims
	UserID   string   `json:"user_id"`
	Nickname string   `json:"nickname,omitempty"`
	Admin    bool     `json:"admin,omitempty"`
	Actions  []string `json:"actions,omitempty"`
	Mounts   []string `json:"mounts,omitempty"`
	Locale   string   `json:"locale,omitempty"`
}

// Manager HMAC JWT 발급/검증
type Manager struct {
	secretKey []byte
	expiresIn time.Duration
}

// NewManager 새 JWT 매니저 생성 (expiresIn: 초)
func NewManager(secret string, expiresIn int) *Manager {
	return &Manager{
		secretKey: []byte(secret),
		expiresIn: time.Duration(expiresIn) * time.Second,
	}
}

// GenerateToken signs claims, filling the registered time fields
func (m *Manager) GenerateToken(claims Claims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.expiresIn))
	if claims.Subject == "" {
		claims.Subject = claims.UserID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyToken 토큰 검증
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
