package types

import "github.com/golang-jwt/jwt/v5"

// Claims carried by a session token. RegisteredClaims.ID is the session id.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
