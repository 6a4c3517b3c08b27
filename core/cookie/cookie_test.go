package cookie_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/conduit/core/cookie"
)

func TestSigner(t *testing.T) {
	t.Parallel()

	t.Run("requires a secret", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.NewSigner()
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
		_, err = cookie.NewSigner(" ", "")
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("sign and unsign", func(t *testing.T) {
		t.Parallel()
		s, err := cookie.NewSigner("secret")
		require.NoError(t, err)

		signed := s.Sign("user.42")
		assert.Contains(t, signed, "s:user.42.")

		v, err := s.Unsign(signed)
		require.NoError(t, err)
		assert.Equal(t, "user.42", v)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		s, err := cookie.NewSigner("secret")
		require.NoError(t, err)

		signed := s.Sign("admin=false")
		tampered := "s:admin=true" + signed[len("s:admin=false"):]
		_, err = s.Unsign(tampered)
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)

		_, err = s.Unsign("plain")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
		_, err = s.Unsign("s:nodot")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})

	t.Run("rotation", func(t *testing.T) {
		t.Parallel()
		old, err := cookie.NewSigner("old")
		require.NoError(t, err)
		rotated, err := cookie.NewSigner("new", "old")
		require.NoError(t, err)

		v, err := rotated.Unsign(old.Sign("value"))
		require.NoError(t, err)
		assert.Equal(t, "value", v)

		_, err = old.Unsign(rotated.Sign("value"))
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})
}

func TestBuild(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		c := cookie.Build("a", "b", cookie.Apply(), now)
		assert.Equal(t, "/", c.Path)
		assert.Zero(t, c.MaxAge)
		assert.True(t, c.Expires.IsZero())
		assert.False(t, c.HttpOnly)
		assert.Equal(t, http.SameSite(0), c.SameSite)
	})

	t.Run("all options", func(t *testing.T) {
		t.Parallel()
		o := cookie.Apply(
			cookie.WithPath("/admin"),
			cookie.WithDomain("example.com"),
			cookie.WithMaxAge(time.Hour),
			cookie.WithHTTPOnly(),
			cookie.WithSecure(),
			cookie.WithSameSite(cookie.SameSiteStrict),
		)
		c := cookie.Build("a", "b", o, now)
		assert.Equal(t, "/admin", c.Path)
		assert.Equal(t, "example.com", c.Domain)
		assert.Equal(t, 3600, c.MaxAge)
		assert.Equal(t, now.Add(time.Hour), c.Expires)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	})

	t.Run("expires", func(t *testing.T) {
		t.Parallel()
		at := now.Add(48 * time.Hour)
		c := cookie.Build("a", "b", cookie.Apply(cookie.WithExpires(at)), now)
		assert.Equal(t, at, c.Expires)
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()
		c := cookie.Clear("a", cookie.Apply(cookie.WithPath("/x")))
		assert.Empty(t, c.Value)
		assert.Equal(t, "/x", c.Path)
		assert.True(t, c.Expires.Before(now))
	})
}

func TestNewSignerFromConfig(t *testing.T) {
	t.Parallel()

	assert.Nil(t, cookie.NewSignerFromConfig(cookie.Config{}))

	s := cookie.NewSignerFromConfig(cookie.Config{Secrets: "a, b"})
	require.NotNil(t, s)
	_, err := s.Unsign(s.Sign("x"))
	assert.NoError(t, err)
}
