// Package token mints and parses signed session tokens. Tokens are
// stateless: the issuer keeps no per-token record, and revocation is layered
// on top by the revocation package.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkov/authcore/common"
)

// Claims embeds the registered JWT claims plus the account's username and
// active role names. Subject carries the account ID.
type Claims struct {
	jwt.RegisteredClaims
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
}

// Issuer signs and verifies session tokens with a process-wide HS256 key
// configured at startup. Key rotation is out of scope.
type Issuer struct {
	secret   []byte
	validity time.Duration
}

func NewIssuer(secret []byte, validity time.Duration) *Issuer {
	return &Issuer{secret: secret, validity: validity}
}

// Validity returns the configured token lifetime.
func (i *Issuer) Validity() time.Duration {
	return i.validity
}

// Issue mints a signed token for the account and returns it together with
// the lifetime in seconds for client-side caching.
func (i *Issuer) Issue(accountID, username string, roleNames []string) (string, int64, error) {
	issuedAt := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.validity)),
		},
		Username: username,
		Roles:    roleNames,
	})

	tokenString, err := t.SignedString(i.secret)
	if err != nil {
		return "", 0, err
	}

	return tokenString, int64(i.validity.Seconds()), nil
}

// Parse verifies the signature and expiry of tokenString and recovers its
// claims. Expired tokens yield common.ErrTokenExpired; anything malformed or
// signed with the wrong key yields common.ErrTokenInvalid.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}

	if !t.Valid {
		return nil, common.ErrTokenInvalid
	}

	return claims, nil
}
