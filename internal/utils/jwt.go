package utils // package utils provides helper functions for token creation and hashing

import (
	"encoding/base64" // base64 codec for the derived signing key
	"errors"          // sentinel error definitions and errors.Is
	"time"            // expiry computation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Verification failure sentinels.  Callers treat all three identically
// (reject the request) but they stay distinguishable for logging.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims is the decoded payload of a verified token.  UserID and
// Email come straight from the token body so the verification path
// never needs a storage lookup to build the request principal.
type Claims struct {
	UserID    uint64    // user_id claim
	Email     string    // subject / username claim
	Roles     []string  // roles claim (absent on refresh tokens)
	ExpiresAt time.Time // exp claim; lets logout compute the denylist TTL
}

// SignedToken pairs a serialized JWT with its expiry so handlers can
// report the expiration to clients without re-parsing the token.
type SignedToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Tokenizer issues and verifies HS256 tokens.  The signing key is
// derived once from the configured secret: the secret is held in its
// base64 form and decoded back to raw bytes at sign and verify time,
// so access and refresh tokens share one signing scheme and differ
// only in TTL and embedded claims.
type Tokenizer struct {
	encodedKey    string // base64 encoding of the configured secret
	accessTTLMin  int    // access token time-to-live in minutes
	refreshTTLMin int    // refresh token time-to-live in minutes
}

// NewTokenizer derives the signing key from secret and fixes the two
// TTL policies.  Key rotation is not supported.
func NewTokenizer(secret string, accessTTLMin, refreshTTLMin int) *Tokenizer {
	return &Tokenizer{
		encodedKey:    base64.StdEncoding.EncodeToString([]byte(secret)),
		accessTTLMin:  accessTTLMin,
		refreshTTLMin: refreshTTLMin,
	}
}

// AccessToken builds a short-lived token carrying the identity and
// its role set.  Subject is the email; user_id rides along as a claim
// so middleware can build the principal without a user lookup.
func (t *Tokenizer) AccessToken(userID uint64, email string, roles []string) (SignedToken, error) {
	exp := time.Now().UTC().Add(time.Duration(t.accessTTLMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      email,
		"username": email,
		"user_id":  userID,
		"roles":    roles,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	return t.sign(claims, exp)
}

// RefreshToken builds a long-lived token identifying the subject
// only.  Roles are deliberately absent: the refresh exchange reloads
// them from storage so a re-provisioned role set takes effect.
func (t *Tokenizer) RefreshToken(userID uint64, email string) (SignedToken, error) {
	exp := time.Now().UTC().Add(time.Duration(t.refreshTTLMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":     email,
		"user_id": userID,
		"exp":     exp.Unix(),
		"iat":     time.Now().UTC().Unix(),
	}
	return t.sign(claims, exp)
}

func (t *Tokenizer) sign(claims jwt.MapClaims, exp time.Time) (SignedToken, error) {
	key, err := base64.StdEncoding.DecodeString(t.encodedKey)
	if err != nil {
		return SignedToken{}, err
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// Verify checks signature integrity and expiry of a serialized token
// and returns its claims.  Failures map onto exactly one of the three
// sentinels above.
func (t *Tokenizer) Verify(raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(tk *jwt.Token) (interface{}, error) {
		// Reject any algorithm other than the HMAC family used to sign.
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return base64.StdEncoding.DecodeString(t.encodedKey)
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignature):
			return Claims{}, ErrTokenSignature
		default:
			return Claims{}, ErrTokenMalformed
		}
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Claims{}, ErrTokenMalformed
	}
	return claimsFromMap(mc)
}

// claimsFromMap pulls the typed fields out of the raw claim map.
// JWT numbers decode as float64; roles decode as []interface{}.
func claimsFromMap(mc jwt.MapClaims) (Claims, error) {
	var c Claims
	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return Claims{}, ErrTokenMalformed
	}
	c.Email = sub
	uid, ok := mc["user_id"].(float64)
	if !ok || uid < 0 {
		return Claims{}, ErrTokenMalformed
	}
	c.UserID = uint64(uid)
	exp, ok := mc["exp"].(float64)
	if !ok {
		return Claims{}, ErrTokenMalformed
	}
	c.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	if rawRoles, ok := mc["roles"].([]interface{}); ok {
		for _, r := range rawRoles {
			if s, ok := r.(string); ok {
				c.Roles = append(c.Roles, s)
			}
		}
	}
	return c, nil
}
