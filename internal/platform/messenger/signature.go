package messenger

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the HMAC-SHA1 of the raw request body keyed with
// the app secret, formatted "sha1=<hex>".
const SignatureHeader = "X-Hub-Signature"

// VerifySignature reports whether header is a valid signature of body.
func VerifySignature(appSecret string, body []byte, header string) bool {
	if appSecret == "" {
		return false
	}
	algo, sig, ok := strings.Cut(strings.TrimSpace(header), "=")
	if !ok || !strings.EqualFold(algo, "sha1") {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	return hmac.Equal(got, Sign(appSecret, body))
}

// Sign computes the raw HMAC-SHA1 digest of body.
func Sign(appSecret string, body []byte) []byte {
	mac := hmac.New(sha1.New, []byte(appSecret))
	_, _ = mac.Write(body)
	return mac.Sum(nil)
}
