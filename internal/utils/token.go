package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand" // secure random number generation for reset tokens
    "encoding/hex" // hex encoding of random token bytes
    "errors"      // sentinel error for invalid tokens
    "time"        // expiry computation

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

    "github.com/greenspro/auth-backend/internal/model" // closed role enum
)

// ErrInvalidToken is returned by ParseAccessToken for any token that cannot
// be accepted: bad signature, wrong algorithm, malformed payload, unknown
// role or past expiry. Callers must not distinguish between these cases.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the typed claim set carried by access tokens. UserID is the
// subject of the token; IsApproved is only meaningful for the user role
// (admins are always active). Expiry and issued-at live in the embedded
// RegisteredClaims.
type Claims struct {
    UserID     uint64     `json:"id"`
    Email      string     `json:"email"`
    Role       model.Role `json:"role"`
    IsApproved bool       `json:"isApproved"`
    jwt.RegisteredClaims
}

// AccessToken bundles a signed JWT string with its expiration time so that
// callers can report the expiry without re-parsing the token.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user or admin. It takes
// the signing secret, the identity fields and a TTL in minutes. The role is
// validated against the closed enum before signing; issuing a token with an
// unknown role is a programming error and is rejected.
func NewAccessToken(secret string, userID uint64, email string, role model.Role, approved bool, ttlMin int) (AccessToken, error) {
    if !role.Valid() {
        return AccessToken{}, ErrInvalidToken
    }
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := Claims{
        UserID:     userID,
        Email:      email,
        Role:       role,
        IsApproved: approved,
        RegisteredClaims: jwt.RegisteredClaims{
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a bearer token and
// returns its claims. Expiry is checked against server wall-clock time by
// the jwt library; there is no revocation list, so a token stays valid
// until it expires. Any failure collapses into ErrInvalidToken.
func ParseAccessToken(secret, raw string) (*Claims, error) {
    tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything other than HMAC.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil, ErrInvalidToken
    }
    claims, ok := tok.Claims.(*Claims)
    if !ok || !claims.Role.Valid() {
        return nil, ErrInvalidToken
    }
    return claims, nil
}

// ResetToken is a single-use secret mailed to a user who asked for a
// password reset. Raw goes into the emailed link; Raw and Exp are persisted
// on the user row, replacing any earlier token.
type ResetToken struct {
    Raw string    // raw token string embedded in the reset link
    Exp time.Time // UTC expiration time, one hour after issuance
}

// resetTokenTTL is fixed: reset links expire one hour after they are requested.
const resetTokenTTL = time.Hour

// NewResetToken returns a cryptographically secure random reset token and
// its expiration time. 32 bytes of entropy encoded as 64 hex characters.
func NewResetToken() (ResetToken, error) {
    raw, err := randomHex(32)
    if err != nil {
        return ResetToken{}, err
    }
    return ResetToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(resetTokenTTL),
    }, nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data. If the random number generator
// fails, an error is returned.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
