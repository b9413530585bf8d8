package utility

import (
	"fmt"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

// CreateToken tạo JWT session token cho user sau khi đăng nhập
func CreateToken(secret, userID, hwid string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"hwid":   hwid,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// CreateShareToken tạo share-scope token sau khi nhập đúng mật khẩu link.
// Token chỉ mang linkId, TTL ngắn theo cấu hình.
func CreateShareToken(secret, linkID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"linkId": linkID,
		"scope":  "share",
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseShareToken kiểm tra share-scope token và trả về linkId trong claims
func ParseShareToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	if scope, _ := claims["scope"].(string); scope != "share" {
		return "", fmt.Errorf("invalid token scope")
	}
	linkID, _ := claims["linkId"].(string)
	if linkID == "" {
		return "", fmt.Errorf("missing linkId claim")
	}
	return linkID, nil
}
