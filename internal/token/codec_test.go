package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testSession() domainauth.Session {
	return domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Name:      "Test User",
		Email:     "test@example.com",
		Role:      domainauth.RoleUser,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestNewCodec_ShortSecret(t *testing.T) {
	codec, err := NewCodec("too-short", "creatorflow")

	require.Error(t, err)
	assert.Nil(t, codec)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestNewCodec_EmptyIssuer(t *testing.T) {
	codec, err := NewCodec(testSecret, "")

	require.Error(t, err)
	assert.Nil(t, codec)
}

func TestCodec_MintVerify_RoundTrip(t *testing.T) {
	codec, err := NewCodec(testSecret, "creatorflow")
	require.NoError(t, err)

	sess := testSession()
	raw, err := codec.Mint(sess)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	claims, err := codec.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, claims.SessionID)
	assert.Equal(t, sess.UserID, claims.UserID)
	assert.Equal(t, sess.Name, claims.Name)
	assert.Equal(t, sess.Email, claims.Email)
	assert.WithinDuration(t, sess.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestCodec_Verify_TamperedPayload(t *testing.T) {
	codec, err := NewCodec(testSecret, "creatorflow")
	require.NoError(t, err)

	raw, err := codec.Mint(testSession())
	require.NoError(t, err)

	// Flip one character inside the payload segment.
	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = codec.Verify(tampered)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Verify_TamperedSignature(t *testing.T) {
	codec, err := NewCodec(testSecret, "creatorflow")
	require.NoError(t, err)

	raw, err := codec.Mint(testSession())
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Verify(tampered)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	codec, err := NewCodec(testSecret, "creatorflow")
	require.NoError(t, err)
	other, err := NewCodec("ffffffffffffffffffffffffffffffff", "creatorflow")
	require.NoError(t, err)

	raw, err := codec.Mint(testSession())
	require.NoError(t, err)

	_, err = other.Verify(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Verify_WrongIssuer(t *testing.T) {
	codec, err := NewCodec(testSecret, "creatorflow")
	require.NoError(t, err)
	other, err := NewCodec(testSecret, "someone-else")
	require.NoError(t, err)

	raw, err := other.Mint(testSession())
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Verify_UnsignedAlgorithmRejected(t *testing.T) {
	codec, err := NewCodec(testSecret, "creatorflow")
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sid": "sess-1",
		"sub": "user-1",
		"iss": "creatorflow",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Verify_Expired(t *testing.T) {
	codec, err := NewCodec(testSecret, "creatorflow")
	require.NoError(t, err)

	// Sign an already-expired token directly; Mint refuses expired sessions.
	claims := sessionClaims{
		SessionID: "sess-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "creatorflow",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Verify_Empty(t *testing.T) {
	codec, err := NewCodec(testSecret, "creatorflow")
	require.NoError(t, err)

	_, err = codec.Verify("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Mint_ExpiredSession(t *testing.T) {
	codec, err := NewCodec(testSecret, "creatorflow")
	require.NoError(t, err)

	sess := testSession()
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	_, err = codec.Mint(sess)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}
