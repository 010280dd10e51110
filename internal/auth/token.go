// Package auth mints and validates operator session tokens (JWT, HS256).
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/models"
)

// Claims carries the operator identity inside a session token.
type Claims struct {
	jwt.RegisteredClaims
	OperatorID string
	Role       models.Role
}

// GenerateToken mints a signed session token for the operator.
func GenerateToken(operatorID string, role models.Role, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		OperatorID: operatorID,
		Role:       role,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates a session token and returns its claims.
// Expired tokens yield common.ErrTokenExpired; anything else invalid yields
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
