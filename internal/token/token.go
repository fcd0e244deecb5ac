// Package token implements the obfuscated voice-token scheme used as a
// lightweight anti-abuse gate. A token wraps a millisecond timestamp: every
// digit is shifted up by a fixed offset and the result is padded with one
// throwaway character on each side.
package token

import (
	"math/rand"
	"strconv"
	"time"
)

const (
	// shift is the code-point offset applied to every character of the
	// embedded timestamp. '0'..'9' land on 'a'..'j'.
	shift = 49

	// DefaultWindow is how long a decoded timestamp stays acceptable.
	DefaultWindow = 6 * time.Hour

	timestampDigits = 13
)

const padAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Decode strips the padding characters and reverses the code-point shift.
// Inputs shorter than two characters decode to ""; callers must treat an
// empty result as invalid.
func Decode(tok string) string {
	runes := []rune(tok)
	if len(runes) < 2 {
		return ""
	}
	inner := runes[1 : len(runes)-1]
	out := make([]rune, len(inner))
	for i, r := range inner {
		out[i] = r - shift
	}
	return string(out)
}

// Encode is the inverse of Decode. It exists for token issuers and tests;
// the server itself only ever decodes.
func Encode(ts string) string {
	runes := []rune(ts)
	out := make([]rune, 0, len(runes)+2)
	out = append(out, pad())
	for _, r := range runes {
		out = append(out, r+shift)
	}
	out = append(out, pad())
	return string(out)
}

// EncodeTime encodes t's millisecond timestamp.
func EncodeTime(t time.Time) string {
	return Encode(strconv.FormatInt(t.UnixMilli(), 10))
}

func pad() rune {
	return rune(padAlphabet[rand.Intn(len(padAlphabet))])
}

// IsTimestamp reports whether s is exactly 13 ASCII digits, the shape of a
// millisecond timestamp between 2001 and 2286.
func IsTimestamp(s string) bool {
	if len(s) != timestampDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Freshness validates decoded tokens against a validity window.
//
// The upstream scheme only ever checked the upper bound, so tokens carrying
// a future timestamp pass by default; that doubles as clock-skew tolerance
// between issuer and server. Set RejectFuture to enforce the lower bound.
type Freshness struct {
	Window       time.Duration
	RejectFuture bool
}

// Fresh reports whether tok decodes to a well-formed timestamp no older
// than the window at time now.
func (f Freshness) Fresh(tok string, now time.Time) bool {
	decoded := Decode(tok)
	if !IsTimestamp(decoded) {
		return false
	}
	ts, err := strconv.ParseInt(decoded, 10, 64)
	if err != nil {
		return false
	}
	window := f.Window
	if window <= 0 {
		window = DefaultWindow
	}
	age := now.UnixMilli() - ts
	if f.RejectFuture && age < 0 {
		return false
	}
	return age <= window.Milliseconds()
}
