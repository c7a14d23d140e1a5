package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"campaignhub/config"
	"campaignhub/models"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UID          string      `json:"uid"`
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	TokenVersion int         `json:"token_version"`
	Kind         string      `json:"kind"`
	jwt.RegisteredClaims
}

// GenerateJWTToken issues an access and a refresh token for the credential.
// The role travels in the claims so permission checks need no lookup.
func GenerateJWTToken(cred *models.Credential, role models.Role) (string, string, error) {
	now := time.Now()

	accessToken, err := sign(&Claims{
		UID:          cred.ID,
		Email:        cred.Email,
		Role:         role,
		TokenVersion: cred.TokenVersion,
		Kind:         tokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cred.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	if err != nil {
		return "", "", err
	}

	refreshToken, err := sign(&Claims{
		UID:          cred.ID,
		Email:        cred.Email,
		Role:         role,
		TokenVersion: cred.TokenVersion,
		Kind:         tokenRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cred.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func ParseJWTToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// ParseAccessToken accepts only access tokens.
func ParseAccessToken(tokenString string) (*Claims, error) {
	claims, err := ParseJWTToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != tokenAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseRefreshToken accepts only refresh tokens.
func ParseRefreshToken(tokenString string) (*Claims, error) {
	claims, err := ParseJWTToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != tokenRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
