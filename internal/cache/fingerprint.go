package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// digestBytes is how much of the SHA-256 sum ends up in a fingerprint.
const digestBytes = 16

// maxSlugLen bounds each readable component so a key plus ".code" stays well
// under the 255-byte file name limit.
const maxSlugLen = 48

// Fingerprint derives the cache key for a generation. The readable components
// are slugged so the key is safe as a file name; the trailing digest covers the
// raw values of all four inputs so distinct inputs give distinct keys.
func Fingerprint(provider, prompt, language, model string) string {
	h := sha256.New()
	for i, part := range []string{provider, language, model, prompt} {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(part))
	}
	digest := hex.EncodeToString(h.Sum(nil)[:digestBytes])

	return strings.Join([]string{slug(provider), slug(language), slug(model), digest}, "_")
}

// slug lower-cases s, replaces anything outside [a-z0-9.-] with '-' and
// truncates the result to maxSlugLen bytes.
func slug(s string) string {
	var b strings.Builder
	b.Grow(min(len(s), maxSlugLen))
	for _, r := range strings.ToLower(s) {
		if b.Len() >= maxSlugLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}
