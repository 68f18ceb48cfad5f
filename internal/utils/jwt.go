package utils // package utils provides helper functions for token creation and verification

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
	"github.com/google/uuid"       // uuid generates the unique token identifier (jti)
)

// AccessToken represents a signed JWT access token along with its expiry and
// jti. The Token field contains the serialized JWT string. JTI is the unique
// identifier embedded in the token; logout stores it in the blacklist to
// revoke the token before its natural expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	JTI   string    // unique token identifier
	Exp   time.Time // the UTC expiration time
}

// Claims is the decoded payload of an access token. The subject carries the
// user ID; Username and Role are duplicated into dedicated claims so
// handlers can authorize without a user lookup.
type Claims struct {
	UserID   uint64
	Username string
	Role     string
	JTI      string
	Exp      time.Time
}

// ErrInvalidToken is returned by ParseAccessToken for any token that fails
// verification: bad signature, wrong algorithm, expired, or missing claims.
// Callers translate it uniformly into 401.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user. It takes the
// signing secret, the user's identity and a TTL in minutes, and returns the
// signed token together with its jti and expiry. Claims: sub (user ID),
// username, role, jti, exp, iat.
func NewAccessToken(secret string, userID uint64, username, role string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"role":     role,
		"jti":      jti,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, JTI: jti, Exp: exp}, nil
}

// ParseAccessToken verifies a raw token string against the secret and
// returns its decoded claims. Only HMAC-signed tokens are accepted;
// anything else fails with ErrInvalidToken.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var c Claims
	switch sub := mc["sub"].(type) {
	case float64:
		c.UserID = uint64(sub)
	default:
		return Claims{}, ErrInvalidToken
	}
	c.Username, _ = mc["username"].(string)
	c.Role, _ = mc["role"].(string)
	c.JTI, _ = mc["jti"].(string)
	if c.JTI == "" {
		return Claims{}, ErrInvalidToken
	}
	if expVal, ok := mc["exp"].(float64); ok {
		c.Exp = time.Unix(int64(expVal), 0).UTC()
	}
	return c, nil
}
