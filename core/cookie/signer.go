package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

const signedPrefix = "s:"

// Signer signs and verifies cookie values with HMAC-SHA256.
// The first secret signs; every secret is tried when verifying, so secrets
// can be rotated by prepending the new one.
type Signer struct {
	secrets []string
}

// NewSigner returns a signer for the given secrets. Empty secrets are ignored.
func NewSigner(secrets ...string) (*Signer, error) {
	s := &Signer{}
	for _, secret := range secrets {
		if secret = strings.TrimSpace(secret); secret != "" {
			s.secrets = append(s.secrets, secret)
		}
	}
	if len(s.secrets) == 0 {
		return nil, ErrNoSecret
	}
	return s, nil
}

// Sign returns "s:<value>.<signature>".
func (s *Signer) Sign(value string) string {
	return signedPrefix + value + "." + mac(s.secrets[0], value)
}

// Unsign verifies a value produced by Sign and returns the original value.
func (s *Signer) Unsign(signed string) (string, error) {
	if !strings.HasPrefix(signed, signedPrefix) {
		return "", ErrInvalidFormat
	}
	body := strings.TrimPrefix(signed, signedPrefix)

	dot := strings.LastIndexByte(body, '.')
	if dot < 0 {
		return "", ErrInvalidFormat
	}
	value, sig := body[:dot], body[dot+1:]

	for _, secret := range s.secrets {
		if hmac.Equal([]byte(sig), []byte(mac(secret, value))) {
			return value, nil
		}
	}
	return "", ErrInvalidSignature
}

func mac(secret, value string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(value))
	return base64.RawStdEncoding.EncodeToString(h.Sum(nil))
}
