package quote

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"

	"github.com/Simplici0/calc3d/internal/form"
	"github.com/Simplici0/calc3d/internal/pricing"
)

// ErrStaleQuote is returned when an export request carries inputs that were
// never priced, or were changed after pricing.
var ErrStaleQuote = errors.New("quote inputs changed since the last calculation")

// Signer issues tokens proving a set of inputs has been priced.
type Signer struct {
	secret []byte
}

// NewSigner returns a Signer using secret as the HMAC key.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// RandomSecret returns a hex encoded 32 byte secret.
func RandomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate quote secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Sign returns the token for the session's inputs. It fails with
// ErrNotCalculated when the session holds no breakdown.
func (s *Signer) Sign(session *Session) (string, error) {
	if _, ok := session.Breakdown(); !ok {
		return "", ErrNotCalculated
	}
	return hex.EncodeToString(s.mac(session.Job(), session.Material(), session.Printer())), nil
}

// Verify checks token against the session's inputs.
func (s *Signer) Verify(token string, session *Session) error {
	provided, err := hex.DecodeString(token)
	if err != nil || len(provided) == 0 {
		return ErrStaleQuote
	}
	expected := s.mac(session.Job(), session.Material(), session.Printer())
	if !hmac.Equal(provided, expected) {
		return ErrStaleQuote
	}
	return nil
}

func (s *Signer) mac(job pricing.JobDetails, material pricing.MaterialSettings, printer pricing.PrintSettings) []byte {
	values := url.Values{}
	for k, v := range form.Values(job, material, printer) {
		values.Set(k, v)
	}

	mac := hmac.New(sha256.New, s.secret)
	// Encode sorts by key, giving a canonical payload.
	_, _ = mac.Write([]byte(values.Encode()))
	return mac.Sum(nil)
}
