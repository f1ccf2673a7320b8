package cache

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// maxFileNameLength keeps sanitized keys well under common filesystem
// path-component limits (255 bytes on ext4/NTFS) even after the ".cache"
// suffix and a hash collision-avoidance suffix are appended.
const maxFileNameLength = 180

var (
	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	reservedNames   = map[string]struct{}{
		"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
		"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {},
		"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {},
	}
)

// sanitizeFileName turns an arbitrary cache key into a safe, unique
// filesystem path component: non-alphanumeric characters are replaced,
// reserved device names are prefixed, and overly long keys are truncated
// with a hash suffix to stay unique.
func sanitizeFileName(key string) string {
	s := unsafeFileChars.ReplaceAllString(key, "_")
	s = strings.Trim(s, "._")
	if s == "" {
		s = "_"
	}
	if _, reserved := reservedNames[strings.ToUpper(s)]; reserved {
		s = "_" + s
	}
	if len(s) > maxFileNameLength {
		s = s[:maxFileNameLength] + "_" + shortHash(key)
	}
	return s + ".cache"
}

func shortHash(s string) string {
	return fmt.Sprintf("%08x", xxhash.Sum64String(s))
}
