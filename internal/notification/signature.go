package notification

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"

	"github.com/slok/tfe-notifier/internal/internalerrors"
)

// SignatureHeader is the HTTP header where TFE sends the HMAC signature of
// the notification body.
const SignatureHeader = "X-TFE-Notification-Signature"

// Verify checks that signature is the hex encoded HMAC-SHA512 of body keyed
// by secret. The comparison runs in constant time so mismatches can't be
// used to leak the expected signature through timing. A malformed signature
// is just not equal, it never errors.
func Verify(body []byte, signature, secret string) bool {
	mac := hmac.New(sha512.New, []byte(secret))
	_, _ = mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Signature is the signature header as it came on the request. Present tells
// whether the header was there at all, so a missing header and an empty one
// can be told apart.
type Signature struct {
	Value   string
	Present bool
}

// SignatureValidator applies the signature verification policy on
// notification requests.
type SignatureValidator struct {
	secret string
}

func NewSignatureValidator(secret string) SignatureValidator {
	return SignatureValidator{secret: secret}
}

// Enabled returns false when no secret is configured, in that case
// validation is skipped entirely (not the same as verified).
func (s SignatureValidator) Enabled() bool { return s.secret != "" }

// Validate checks the signature of a notification body.
//
// Verification probes are exempt from missing or empty signature headers:
// TFE may send the probe unsigned even when regular notifications are
// signed. A probe that does present a signature gets verified normally.
func (s SignatureValidator) Validate(body []byte, sig Signature, isVerification bool) error {
	if !s.Enabled() {
		return nil
	}

	if !sig.Present {
		if isVerification {
			return nil
		}
		return internalerrors.ErrSignatureMissing
	}

	if sig.Value == "" {
		if isVerification {
			return nil
		}
		return internalerrors.ErrSignatureEmpty
	}

	if !Verify(body, sig.Value, s.secret) {
		return internalerrors.ErrSignatureInvalid
	}

	return nil
}
