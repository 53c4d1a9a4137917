package security_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pypanta/blog-comments-api/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// clock is a manually advanced time source
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestIssuer(secret string) (*security.TokenIssuer, *clock) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	return security.NewTokenIssuer(secret).WithClock(c.now), c
}

func TestIssueValidate(t *testing.T) {
	iss, _ := newTestIssuer(testSecret)

	token, err := iss.Issue("test@email.com", time.Minute)
	require.NoError(t, err)

	sub, err := iss.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "test@email.com", sub)
}

func TestIssue_EmptySubject(t *testing.T) {
	iss, _ := newTestIssuer(testSecret)

	_, err := iss.Issue("", time.Minute)

	assert.Error(t, err)
}

func TestValidate_Expiry(t *testing.T) {
	iss, clk := newTestIssuer(testSecret)
	lifetime := 60 * time.Second

	token, err := iss.Issue("test@email.com", lifetime)
	require.NoError(t, err)

	clk.t = clk.t.Add(lifetime - time.Second)
	_, err = iss.Validate(token)
	assert.NoError(t, err)

	clk.t = clk.t.Add(time.Second)
	_, err = iss.Validate(token)
	assert.ErrorIs(t, err, security.ErrTokenExpired)

	clk.t = clk.t.Add(time.Hour)
	_, err = iss.Validate(token)
	assert.ErrorIs(t, err, security.ErrTokenExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	iss, _ := newTestIssuer(testSecret)
	other, _ := newTestIssuer("another-secret")

	token, err := iss.Issue("test@email.com", time.Minute)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}

func TestValidate_WrongSecretExpired(t *testing.T) {
	iss, _ := newTestIssuer(testSecret)
	other, clk := newTestIssuer("another-secret")

	token, err := iss.Issue("test@email.com", time.Minute)
	require.NoError(t, err)

	clk.t = clk.t.Add(time.Hour)
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
	assert.NotErrorIs(t, err, security.ErrTokenExpired)
}

func TestValidate_TamperedPayload(t *testing.T) {
	iss, _ := newTestIssuer(testSecret)
	forger, _ := newTestIssuer("forger")

	token, err := iss.Issue("test@email.com", time.Minute)
	require.NoError(t, err)
	forged, err := forger.Issue("admin@email.com", time.Minute)
	require.NoError(t, err)

	// Original header and signature around someone else's claims
	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = iss.Validate(tampered)
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}

func TestValidate_Garbage(t *testing.T) {
	iss, _ := newTestIssuer(testSecret)

	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := iss.Validate(tok)
		assert.ErrorIs(t, err, security.ErrTokenInvalid, tok)
	}
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	iss, clk := newTestIssuer(testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "test@email.com",
		ExpiresAt: jwt.NewNumericDate(clk.t.Add(time.Minute)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = iss.Validate(signed)
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}

func TestValidate_MissingExpiry(t *testing.T) {
	iss, _ := newTestIssuer(testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "test@email.com",
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = iss.Validate(signed)
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}
