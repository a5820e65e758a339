// Package actiontoken issues and verifies signed, self-contained links that
// let a player record a match response without logging in.
//
// A token is base64url(JSON payload) + "." + base64url(HMAC-SHA256(payload)).
// Nothing is persisted; a token is valid until its exp and may be replayed
// until then.
package actiontoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	payloadVersion = 1
	DefaultTTL     = 72 * time.Hour
)

var (
	ErrInvalid = errors.New("token_invalid")
	ErrExpired = errors.New("token_expired")
)

// Status is a response a link can record.
type Status string

const (
	StatusYes   Status = "yes"
	StatusMaybe Status = "maybe"
	StatusNo    Status = "no"
)

// Statuses lists the link statuses in display order.
var Statuses = []Status{StatusYes, StatusMaybe, StatusNo}

// Valid reports whether s is one of yes, maybe or no.
func (s Status) Valid() bool {
	switch s {
	case StatusYes, StatusMaybe, StatusNo:
		return true
	}
	return false
}

// Payload is the verified content of a token.
type Payload struct {
	MatchID   int64
	UserID    int64
	Status    Status
	ExpiresAt time.Time
}

// wirePayload uses pointers so missing fields are distinguishable from zero.
type wirePayload struct {
	Version *int64  `json:"v"`
	MatchID *int64  `json:"matchId"`
	UserID  *int64  `json:"userId"`
	Status  *string `json:"status"`
	Exp     *int64  `json:"exp"`
}

// Clock supplies the current time for expiry checks.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Service signs and verifies tokens with a single secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	clock  Clock
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides the default 72h lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New returns a Service. The secret must be non-empty.
func New(secret string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, errors.New("action token secret is required")
	}
	s := &Service{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		clock:  realClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime applied when no explicit expiry is given.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Create signs a token for the given match, user and status. A zero
// expiresAt uses now + TTL.
func (s *Service) Create(matchID, userID int64, status Status, expiresAt time.Time) (string, error) {
	if matchID <= 0 || userID <= 0 {
		return "", errors.New("match and user ids must be positive")
	}
	if !status.Valid() {
		return "", errors.New("status must be yes, maybe or no")
	}
	if expiresAt.IsZero() {
		expiresAt = s.clock.Now().Add(s.ttl)
	}

	version := int64(payloadVersion)
	rawStatus := string(status)
	exp := expiresAt.Unix()
	body, err := json.Marshal(wirePayload{
		Version: &version,
		MatchID: &matchID,
		UserID:  &userID,
		Status:  &rawStatus,
		Exp:     &exp,
	})
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(body)
	return encoded + "." + s.sign(encoded), nil
}

// Verify checks the signature, then the payload shape, then expiry.
func (s *Service) Verify(token string) (Payload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Payload{}, ErrInvalid
	}

	encoded, signature := parts[0], parts[1]
	expected := s.sign(encoded)
	if len(signature) != len(expected) ||
		subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
		return Payload{}, ErrInvalid
	}

	body, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, ErrInvalid
	}

	var wire wirePayload
	if err := json.Unmarshal(body, &wire); err != nil {
		return Payload{}, ErrInvalid
	}
	payload, ok := wire.validate()
	if !ok {
		return Payload{}, ErrInvalid
	}

	if !payload.ExpiresAt.After(s.clock.Now()) {
		return Payload{}, ErrExpired
	}
	return payload, nil
}

func (w wirePayload) validate() (Payload, bool) {
	if w.Version == nil || *w.Version != payloadVersion {
		return Payload{}, false
	}
	if w.MatchID == nil || *w.MatchID <= 0 || w.UserID == nil || *w.UserID <= 0 {
		return Payload{}, false
	}
	if w.Status == nil || !Status(*w.Status).Valid() {
		return Payload{}, false
	}
	if w.Exp == nil || *w.Exp <= 0 {
		return Payload{}, false
	}
	return Payload{
		MatchID:   *w.MatchID,
		UserID:    *w.UserID,
		Status:    Status(*w.Status),
		ExpiresAt: time.Unix(*w.Exp, 0).UTC(),
	}, true
}

func (s *Service) sign(encoded string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// ResponsePath returns the app-relative path a token is redeemed at.
func ResponsePath(token string) string {
	return "/match-availability/respond/" + token
}

// Links holds one signed URL per status.
type Links map[Status]string

// BuildLinks signs a response URL for every status, prefixed with baseURL.
func (s *Service) BuildLinks(baseURL string, matchID, userID int64) (Links, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	expiresAt := s.clock.Now().Add(s.ttl)
	links := make(Links, len(Statuses))
	for _, status := range Statuses {
		token, err := s.Create(matchID, userID, status, expiresAt)
		if err != nil {
			return nil, err
		}
		links[status] = baseURL + ResponsePath(token)
	}
	return links, nil
}
