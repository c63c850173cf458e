package session

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/piresc/intranet-notify/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testUserID = "681a085abce9e3bfa7d745b9"

	// Cookies produced by the web layer for {"user_id": testUserID} at signedAt
	defaultCookie = "eyJ1c2VyX2lkIjogIjY4MWEwODVhYmNlOWUzYmZhN2Q3NDViOSJ9.aE7hgA.htWoqBfTzOiw4FH87zvyeg9XWqE"
	legacyCookie  = "eyJ1c2VyX2lkIjogIjY4MWEwODVhYmNlOWUzYmZhN2Q3NDViOSJ9.aE7hgA.ocPvy9-jaYn1oyUtSmOBdZjho9Y"
)

var signedAt = time.Unix(1750000000, 0)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestExtractor(t *testing.T, opts ...Option) *Extractor {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock(signedAt.Add(time.Minute)))}, opts...)
	e, err := NewExtractor(testSecret, opts...)
	require.NoError(t, err)
	return e
}

func authKind(t *testing.T, err error) models.AuthErrorKind {
	t.Helper()
	var authErr *models.AuthError
	require.True(t, errors.As(err, &authErr), "expected *models.AuthError, got %v", err)
	return authErr.Kind
}

func TestNewExtractor_EmptySecret(t *testing.T) {
	e, err := NewExtractor("")

	assert.Nil(t, e)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestExtract_VerifiedProfiles(t *testing.T) {
	tests := []struct {
		name    string
		cookie  string
		profile string
	}{
		{name: "default signer", cookie: defaultCookie, profile: "default"},
		{name: "legacy signer", cookie: legacyCookie, profile: "legacy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(t)

			cred, err := e.Extract(tt.cookie)

			require.NoError(t, err)
			assert.Equal(t, testUserID, cred.UserID)
			assert.True(t, cred.Verified)
			assert.Equal(t, tt.profile, cred.Profile)
		})
	}
}

func TestExtract_SignRoundTrip(t *testing.T) {
	e := newTestExtractor(t)

	cookie, err := e.Sign(map[string]interface{}{"user_id": "u-1", "csrf": "x"}, signedAt)
	require.NoError(t, err)

	cred, err := e.Extract(cookie)

	require.NoError(t, err)
	assert.Equal(t, "u-1", cred.UserID)
	assert.True(t, cred.Verified)
}

func TestExtract_SignMatchesWebLayer(t *testing.T) {
	e := newTestExtractor(t)

	// json.Marshal drops the space after the colon, so only the signature scheme is compared
	cookie, err := e.Sign(map[string]interface{}{"user_id": testUserID}, signedAt)
	require.NoError(t, err)

	assert.Contains(t, cookie, ".aE7hgA.")
}

func TestExtract_WrongSignature(t *testing.T) {
	other, err := NewExtractor("another-secret", WithClock(fixedClock(signedAt)))
	require.NoError(t, err)
	forged, err := other.Sign(map[string]interface{}{"user_id": "u-2"}, signedAt)
	require.NoError(t, err)

	t.Run("fallback accepts unverified payload", func(t *testing.T) {
		e := newTestExtractor(t)

		cred, err := e.Extract(forged)

		require.NoError(t, err)
		assert.Equal(t, "u-2", cred.UserID)
		assert.False(t, cred.Verified)
		assert.Empty(t, cred.Profile)
	})

	t.Run("fallback disabled", func(t *testing.T) {
		e := newTestExtractor(t, WithUnverifiedFallback(false))

		cred, err := e.Extract(forged)

		assert.Nil(t, cred)
		assert.Equal(t, models.AuthMalformedCredential, authKind(t, err))
		assert.ErrorIs(t, err, ErrBadSignature)
	})
}

func TestExtract_Expired(t *testing.T) {
	e := newTestExtractor(t,
		WithClock(fixedClock(signedAt.Add(DefaultMaxAge+time.Second))),
		WithUnverifiedFallback(false),
	)

	_, err := e.Extract(defaultCookie)

	assert.Equal(t, models.AuthMalformedCredential, authKind(t, err))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestExtract_ExpiredFallsBackToUnverified(t *testing.T) {
	e := newTestExtractor(t, WithClock(fixedClock(signedAt.Add(DefaultMaxAge+time.Second))))

	cred, err := e.Extract(defaultCookie)

	require.NoError(t, err)
	assert.Equal(t, testUserID, cred.UserID)
	assert.False(t, cred.Verified)
}

func TestExtract_Errors(t *testing.T) {
	noUser := base64.StdEncoding.EncodeToString([]byte(`{"csrf":"abc"}`)) + ".x.y"
	blankUser := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":"  "}`))
	notJSON := base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".x.y"

	tests := []struct {
		name   string
		cookie string
		kind   models.AuthErrorKind
	}{
		{name: "missing", cookie: "", kind: models.AuthMissingCredential},
		{name: "whitespace only", cookie: "   ", kind: models.AuthMissingCredential},
		{name: "undecodable", cookie: "%%%.x.y", kind: models.AuthMalformedCredential},
		{name: "payload not json", cookie: notJSON, kind: models.AuthMalformedCredential},
		{name: "no user id", cookie: noUser, kind: models.AuthNoUserID},
		{name: "blank user id", cookie: blankUser, kind: models.AuthNoUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(t)

			cred, err := e.Extract(tt.cookie)

			assert.Nil(t, cred)
			assert.Equal(t, tt.kind, authKind(t, err))
		})
	}
}

func TestExtract_FallbackAlphabets(t *testing.T) {
	payload := []byte(`{"user_id":"u-3","k":"??>>"}`)

	tests := []struct {
		name    string
		segment string
	}{
		{name: "standard padded", segment: base64.StdEncoding.EncodeToString(payload)},
		{name: "standard raw", segment: base64.RawStdEncoding.EncodeToString(payload)},
		{name: "url padded", segment: base64.URLEncoding.EncodeToString(payload)},
		{name: "url raw", segment: base64.RawURLEncoding.EncodeToString(payload)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(t)

			cred, err := e.Extract(tt.segment + ".aE7hgA.bogus")

			require.NoError(t, err)
			assert.Equal(t, "u-3", cred.UserID)
			assert.False(t, cred.Verified)
		})
	}
}

func TestExtract_NumericUserID(t *testing.T) {
	e := newTestExtractor(t)
	cookie, err := e.Sign(map[string]interface{}{"user_id": 42}, signedAt)
	require.NoError(t, err)

	cred, err := e.Extract(cookie)

	require.NoError(t, err)
	assert.Equal(t, "42", cred.UserID)
}

func TestExtract_VerifiedWithoutUserID(t *testing.T) {
	e := newTestExtractor(t)
	cookie, err := e.Sign(map[string]interface{}{"csrf": "abc"}, signedAt)
	require.NoError(t, err)

	_, err = e.Extract(cookie)

	assert.Equal(t, models.AuthNoUserID, authKind(t, err))
}

func TestExtract_UnknownKeyDerivation(t *testing.T) {
	e := newTestExtractor(t,
		WithProfiles(Profile{Name: "odd", Salt: "x", KeyDerivation: "md5"}),
		WithUnverifiedFallback(false),
	)

	_, err := e.Extract(defaultCookie)

	assert.Equal(t, models.AuthMalformedCredential, authKind(t, err))
}

func TestTimestampCodec(t *testing.T) {
	enc := encodeTimestamp(signedAt)
	assert.Equal(t, "aE7hgA", enc)

	dec, err := decodeTimestamp(enc)
	require.NoError(t, err)
	assert.True(t, dec.Equal(signedAt))

	_, err = decodeTimestamp("")
	assert.Error(t, err)
}

func TestTimestamp_UnixEpoch(t *testing.T) {
	// the web layer writes seconds since 1970, not since the 2011 epoch of early itsdangerous releases
	got, err := decodeTimestamp("aE7hgA")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 15, 6, 40, 0, time.UTC), got.UTC())

	e := newTestExtractor(t, WithUnverifiedFallback(false))
	cred, err := e.Extract(defaultCookie)
	require.NoError(t, err)
	assert.True(t, cred.Verified)
}
