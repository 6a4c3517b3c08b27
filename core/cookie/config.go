package cookie

import "strings"

// Config reads cookie signing secrets from the environment.
type Config struct {
	// Secrets is a comma-separated list; the first one signs.
	Secrets string `env:"COOKIE_SECRETS" envDefault:""`
}

// NewSignerFromConfig returns a signer, or nil when no secret is configured.
func NewSignerFromConfig(cfg Config) *Signer {
	if cfg.Secrets == "" {
		return nil
	}
	s, err := NewSigner(strings.Split(cfg.Secrets, ",")...)
	if err != nil {
		return nil
	}
	return s
}
