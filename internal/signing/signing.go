// Package signing provides tamper-evident signing of short string values.
//
// Hidden form fields resubmitted by a browser are attacker-controlled. Signing
// a value before handing it to the client lets the server trust it on the next
// request without any server-side session storage: the value comes back as
// "value:signature" and Unsign rejects anything the server did not produce.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// separator joins the payload and its signature. Base64url signatures never
// contain it, and it is rare enough in payloads that LastIndex splits
// unambiguously.
const separator = ":"

// ErrBadSignature is returned by Unsign when a value was not produced by Sign
// with the same key. Callers surface the wrapped message to the user as-is so
// stale or forged resubmissions can be told apart.
var ErrBadSignature = errors.New("bad signature")

// Signer signs and verifies string values with an HMAC-SHA256 keyed by a
// process-wide secret. A Signer is stateless beyond its key and safe for
// concurrent use.
type Signer struct {
	key []byte
}

// New returns a Signer keyed by the given secret.
func New(secret string) *Signer {
	return &Signer{key: []byte(secret)}
}

// Sign returns value with its signature appended.
func (s *Signer) Sign(value string) string {
	return value + separator + s.signature(value)
}

// Unsign splits a signed string, verifies the signature, and returns the
// original value. The error wraps ErrBadSignature and names the failure:
// either the separator is missing entirely or the signature does not match.
func (s *Signer) Unsign(signed string) (string, error) {
	i := strings.LastIndex(signed, separator)
	if i < 0 {
		return "", fmt.Errorf("%w: no %q found in value", ErrBadSignature, separator)
	}

	value, sig := signed[:i], signed[i+1:]
	if !hmac.Equal([]byte(sig), []byte(s.signature(value))) {
		return "", fmt.Errorf("%w: signature %q does not match", ErrBadSignature, sig)
	}

	return value, nil
}

func (s *Signer) signature(value string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
