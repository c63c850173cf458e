// Package session reads the signed session cookie issued by the intranet web layer.
//
// The cookie is a timestamp-signed value:
//
//	base64(json) "." base64url(timestamp) "." base64url(hmac)
//
// Signatures are checked against each configured Profile in order. When none
// verifies, the payload may still be decoded without verification if the
// unverified fallback is enabled.
package session

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/piresc/intranet-notify/internal/pkg/models"
)

// DefaultMaxAge is the lifetime of a session cookie issued by the web layer
const DefaultMaxAge = 14 * 24 * time.Hour

const sep = "."

var (
	// ErrBadSignature is returned when a cookie does not verify under a profile
	ErrBadSignature = errors.New("session: signature does not match")
	// ErrExpired is returned when a verified cookie is older than the max age
	ErrExpired = errors.New("session: signature expired")
	// ErrEmptySecret is returned by NewExtractor when no secret is configured
	ErrEmptySecret = errors.New("session: secret must not be empty")
)

// KeyDerivation selects how the signing key is derived from the secret
type KeyDerivation string

const (
	// DeriveDjangoConcat is sha1(salt + "signer" + secret)
	DeriveDjangoConcat KeyDerivation = "django-concat"
	// DeriveConcat is sha1(salt + secret)
	DeriveConcat KeyDerivation = "concat"
	// DeriveHMAC is hmac-sha1(secret, salt)
	DeriveHMAC KeyDerivation = "hmac"
	// DeriveNone uses the secret as is
	DeriveNone KeyDerivation = "none"
)

// Profile is one signer configuration tried during verification
type Profile struct {
	Name          string
	Salt          string
	KeyDerivation KeyDerivation
}

// DefaultProfiles are the signers the web layer has been known to use
var DefaultProfiles = []Profile{
	{Name: "default", Salt: "itsdangerous.Signer", KeyDerivation: DeriveDjangoConcat},
	{Name: "legacy", Salt: "starlette.sessions", KeyDerivation: DeriveHMAC},
}

// Credential is what was recovered from a cookie
type Credential struct {
	UserID   string
	Verified bool
	// Profile names the signer that verified the cookie, empty when unverified
	Profile string
}

// Extractor verifies session cookies and extracts the user id they carry
type Extractor struct {
	secret          []byte
	profiles        []Profile
	maxAge          time.Duration
	allowUnverified bool
	now             func() time.Time
}

// Option configures an Extractor
type Option func(*Extractor)

// WithProfiles replaces the signer profiles
func WithProfiles(profiles ...Profile) Option {
	return func(e *Extractor) {
		e.profiles = profiles
	}
}

// WithMaxAge sets the maximum cookie age, zero disables the check
func WithMaxAge(d time.Duration) Option {
	return func(e *Extractor) {
		e.maxAge = d
	}
}

// WithUnverifiedFallback enables or disables decoding cookies whose signature does not verify
func WithUnverifiedFallback(enabled bool) Option {
	return func(e *Extractor) {
		e.allowUnverified = enabled
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// NewExtractor returns an Extractor for secret
func NewExtractor(secret string, opts ...Option) (*Extractor, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	e := &Extractor{
		secret:          []byte(secret),
		profiles:        DefaultProfiles,
		maxAge:          DefaultMaxAge,
		allowUnverified: true,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract returns the credential carried by cookie.
// Errors are *models.AuthError of kind missing, malformed or no user id.
func (e *Extractor) Extract(cookie string) (*Credential, error) {
	cookie = strings.TrimSpace(cookie)
	if cookie == "" {
		return nil, models.NewAuthError(models.AuthMissingCredential, nil)
	}

	var lastErr error
	for _, p := range e.profiles {
		payload, err := e.unsign(p, cookie)
		if err != nil {
			if lastErr == nil || !errors.Is(err, ErrBadSignature) {
				lastErr = err
			}
			continue
		}
		userID, err := userIDFromPayload(payload)
		if err != nil {
			return nil, err
		}
		return &Credential{UserID: userID, Verified: true, Profile: p.Name}, nil
	}

	if !e.allowUnverified {
		return nil, models.NewAuthError(models.AuthMalformedCredential, lastErr)
	}

	first := cookie
	if i := strings.Index(cookie, sep); i >= 0 {
		first = cookie[:i]
	}
	raw, err := decodeSegment(first)
	if err != nil {
		return nil, models.NewAuthError(models.AuthMalformedCredential, err)
	}
	userID, err := userIDFromPayload(raw)
	if err != nil {
		return nil, err
	}
	return &Credential{UserID: userID}, nil
}

// Sign produces a cookie for data under the first profile, as the web layer would
func (e *Extractor) Sign(data map[string]interface{}, at time.Time) (string, error) {
	if len(e.profiles) == 0 {
		return "", errors.New("session: no signer profile configured")
	}
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session: encode payload: %w", err)
	}
	value := base64.StdEncoding.EncodeToString(body) + sep + encodeTimestamp(at)
	sig, err := e.signature(e.profiles[0], value)
	if err != nil {
		return "", err
	}
	return value + sep + base64.RawURLEncoding.EncodeToString(sig), nil
}

func (e *Extractor) unsign(p Profile, cookie string) ([]byte, error) {
	i := strings.LastIndex(cookie, sep)
	if i < 0 {
		return nil, ErrBadSignature
	}
	value, sig := cookie[:i], cookie[i+1:]

	expected, err := e.signature(p, value)
	if err != nil {
		return nil, err
	}
	got, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(sig, "="))
	if err != nil || !hmac.Equal(got, expected) {
		return nil, ErrBadSignature
	}

	j := strings.LastIndex(value, sep)
	if j < 0 {
		return nil, ErrBadSignature
	}
	data, ts := value[:j], value[j+1:]

	signedAt, err := decodeTimestamp(ts)
	if err != nil {
		return nil, ErrBadSignature
	}
	if e.maxAge > 0 {
		age := e.now().Sub(signedAt)
		if age > e.maxAge || age < 0 {
			return nil, ErrExpired
		}
	}

	return decodeSegment(data)
}

func (e *Extractor) signature(p Profile, value string) ([]byte, error) {
	key, err := deriveKey(e.secret, p)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(sha1.New, key)
	mac.Write([]byte(value))
	return mac.Sum(nil), nil
}

func deriveKey(secret []byte, p Profile) ([]byte, error) {
	switch p.KeyDerivation {
	case DeriveDjangoConcat:
		sum := sha1.Sum([]byte(p.Salt + "signer" + string(secret)))
		return sum[:], nil
	case DeriveConcat:
		sum := sha1.Sum([]byte(p.Salt + string(secret)))
		return sum[:], nil
	case DeriveHMAC:
		mac := hmac.New(sha1.New, secret)
		mac.Write([]byte(p.Salt))
		return mac.Sum(nil), nil
	case DeriveNone:
		return secret, nil
	default:
		return nil, fmt.Errorf("session: unknown key derivation %q", p.KeyDerivation)
	}
}

// Timestamps count seconds since the Unix epoch, as current itsdangerous releases write them
func encodeTimestamp(t time.Time) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(t.Unix()))
	return base64.RawURLEncoding.EncodeToString(bytes.TrimLeft(buf[:], "\x00"))
}

func decodeTimestamp(s string) (time.Time, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return time.Time{}, err
	}
	if len(raw) == 0 || len(raw) > 8 {
		return time.Time{}, fmt.Errorf("session: invalid timestamp length %d", len(raw))
	}
	var buf [8]byte
	copy(buf[8-len(raw):], raw)
	return time.Unix(int64(binary.BigEndian.Uint64(buf[:])), 0), nil
}

// decodeSegment accepts the URL-safe and the standard alphabet, padded or not
func decodeSegment(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	if s == "" {
		return nil, errors.New("session: empty payload segment")
	}
	if out, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return out, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func userIDFromPayload(raw []byte) (string, error) {
	var data map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return "", models.NewAuthError(models.AuthMalformedCredential, fmt.Errorf("session: decode payload: %w", err))
	}

	switch v := data["user_id"].(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v, nil
		}
	case json.Number:
		return v.String(), nil
	}
	return "", models.NewAuthError(models.AuthNoUserID, nil)
}
