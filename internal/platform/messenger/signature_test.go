package messenger

import (
	"encoding/hex"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"object":"page"}`)
	header := "sha1=" + hex.EncodeToString(Sign("s3cret", body))

	cases := []struct {
		name   string
		secret string
		header string
		want   bool
	}{
		{"valid", "s3cret", header, true},
		{"wrong secret", "other", header, false},
		{"no secret", "", header, false},
		{"missing algo", "s3cret", hex.EncodeToString(Sign("s3cret", body)), false},
		{"wrong algo", "s3cret", "sha256=" + hex.EncodeToString(Sign("s3cret", body)), false},
		{"not hex", "s3cret", "sha1=zz", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := VerifySignature(tc.secret, body, tc.header); got != tc.want {
				t.Fatalf("got=%v want=%v", got, tc.want)
			}
		})
	}
}
