package utils

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"github.com/cardnest/CardNest/config"
)

// PayFast hosted payment page endpoints
const (
	PayFastLiveProcessURL    = "https://www.payfast.co.za/eng/process"
	PayFastSandboxProcessURL = "https://sandbox.payfast.co.za/eng/process"
)

// PayFastSign computes the gateway signature for a parameter set.
//
// The canonical form is a wire contract shared with the gateway and must
// match it bit-for-bit: the signature field itself and all empty values are
// dropped, the remaining keys are sorted, values are form-encoded (space
// becomes '+'), pairs are joined with '&', and the passphrase (when set) is
// appended as a final pair. The digest is MD5 as lowercase hex; the
// algorithm is mandated by the gateway protocol.
func PayFastSign(params map[string]string, passphrase string) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if key == "signature" || value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[key]))
	}
	if passphrase != "" {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString("passphrase=")
		b.WriteString(url.QueryEscape(passphrase))
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// PayFastVerifySignature checks a supplied signature against the expected
// signature for the parameter set.
func PayFastVerifySignature(params map[string]string, supplied, passphrase string) bool {
	if supplied == "" {
		return false
	}
	expected := PayFastSign(params, passphrase)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(supplied))) == 1
}

// PayFastProcessURL returns the hosted payment page for a credential set.
func PayFastProcessURL(creds config.PayFastCredentials) string {
	if creds.Sandbox {
		return PayFastSandboxProcessURL
	}
	return PayFastLiveProcessURL
}

// PayFastRedirectURL builds the full URL the buyer's browser must be sent
// to, with the signed parameter set encoded in the query string.
func PayFastRedirectURL(creds config.PayFastCredentials, params map[string]string) string {
	values := url.Values{}
	for key, value := range params {
		if value == "" {
			continue
		}
		values.Set(key, value)
	}
	return PayFastProcessURL(creds) + "?" + values.Encode()
}
