package auth

import "fmt"

// Demo secrets. This table is illustrative only and is not a credential
// store: every account outside it shares the fallback secret.
var demoSecrets = map[string]string{
	"admin@ppms": "admin@1234",
	"pintu@ppms": "pintu@1234",
}

const fallbackSecret = "password123"

// Credentials maps account emails to the digest of their expected secret.
type Credentials struct {
	digests  map[string]string
	fallback string
}

// NewCredentials hashes the demo secret table with the given bcrypt cost.
func NewCredentials(cost int) (*Credentials, error) {
	c := &Credentials{digests: make(map[string]string, len(demoSecrets))}
	for email, secret := range demoSecrets {
		h, err := HashPassword(secret, cost)
		if err != nil {
			return nil, fmt.Errorf("hash secret for %s: %w", email, err)
		}
		c.digests[email] = h
	}

	h, err := HashPassword(fallbackSecret, cost)
	if err != nil {
		return nil, fmt.Errorf("hash fallback secret: %w", err)
	}
	c.fallback = h
	return c, nil
}

// Check reports whether password is the expected secret for email.
func (c *Credentials) Check(email, password string) bool {
	digest, ok := c.digests[email]
	if !ok {
		digest = c.fallback
	}
	return CheckPassword(password, digest)
}
