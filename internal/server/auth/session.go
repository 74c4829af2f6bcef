package auth

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/boardkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims carries the authenticated account id alongside the standard
// registered claims.
type SessionClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
}

// GenerateSessionToken mints a signed HS256 token for the account, for the
// web layer to place in a cookie after a successful login.
func GenerateSessionToken(accountID int64, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		AccountID: strconv.FormatInt(accountID, 10),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// AccountIDFromSessionToken validates a session token and extracts the
// account id. Expired, forged, or malformed tokens yield
// common.ErrInvalidToken.
func AccountIDFromSessionToken(tokenString string, secretKey []byte) (int64, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return 0, common.ErrInvalidToken
	}
	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.AccountID, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidToken
	}
	return id, nil
}
