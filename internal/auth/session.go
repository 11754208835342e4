package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Principal is who a session belongs to.
type Principal struct {
	UserID   uint
	Role     string
	BarberID *uint
}

// Session is an issued token with its lifetime. Clients should call refresh
// once RefreshAt has passed and must log in again after ExpiresAt.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	RefreshAt time.Time `json:"refresh_at"`
}

func (s Session) NeedsRefresh(now time.Time) bool {
	return !now.Before(s.RefreshAt)
}

type claims struct {
	Role      string `json:"role"`
	BarberID  *uint  `json:"barberId,omitempty"`
	RefreshAt int64  `json:"rat"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 session tokens against an injected clock.
type Issuer struct {
	secret       []byte
	ttl          time.Duration
	refreshAfter time.Duration
	now          func() time.Time
}

func NewIssuer(secret string, ttl, refreshAfter time.Duration, now func() time.Time) *Issuer {
	if now == nil {
		now = time.Now
	}
	if refreshAfter <= 0 || refreshAfter > ttl {
		refreshAfter = ttl / 2
	}
	return &Issuer{
		secret:       []byte(secret),
		ttl:          ttl,
		refreshAfter: refreshAfter,
		now:          now,
	}
}

func (i *Issuer) Issue(p Principal) (Session, error) {
	now := i.now()
	sess := Session{
		ExpiresAt: now.Add(i.ttl),
		RefreshAt: now.Add(i.refreshAfter),
	}

	c := claims{
		Role:      p.Role,
		BarberID:  p.BarberID,
		RefreshAt: sess.RefreshAt.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return Session{}, err
	}
	sess.Token = token
	return sess, nil
}

// Parse verifies the token and returns its principal and lifetime.
func (i *Issuer) Parse(token string) (Principal, Session, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Principal{}, Session{}, ErrInvalidToken
	}

	uid, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || uid == 0 {
		return Principal{}, Session{}, ErrInvalidToken
	}

	p := Principal{
		UserID:   uint(uid),
		Role:     c.Role,
		BarberID: c.BarberID,
	}
	sess := Session{
		Token:     token,
		ExpiresAt: c.ExpiresAt.Time,
		RefreshAt: time.Unix(c.RefreshAt, 0),
	}
	return p, sess, nil
}

// Refresh issues a new session once the current one is due for refresh and
// returns the current one unchanged before that. reload rebuilds the
// principal from the account so role changes reach the new token; a nil
// reload keeps the token's claims.
func (i *Issuer) Refresh(token string, reload func(Principal) (Principal, error)) (Session, error) {
	p, sess, err := i.Parse(token)
	if err != nil {
		return Session{}, err
	}
	if !sess.NeedsRefresh(i.now()) {
		return sess, nil
	}
	if reload != nil {
		if p, err = reload(p); err != nil {
			return Session{}, err
		}
	}
	return i.Issue(p)
}
