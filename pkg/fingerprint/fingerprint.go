// Package fingerprint computes a stable content hash for an exception so
// repeated occurrences of the same fault can be deduplicated.
package fingerprint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Frame is a normalized stack frame: just enough identity to distinguish
// one call site from another, with volatile detail (line numbers, memory
// addresses, generic instantiation suffixes) stripped out.
type Frame struct {
	Type   string
	Method string
}

var (
	lineNumberRe = regexp.MustCompile(`:\d+\)?$`)
	addressRe    = regexp.MustCompile(`0x[0-9a-fA-F]+`)
	genericArgRe = regexp.MustCompile(`\[.*\]`)
)

// NormalizeFrame strips volatile detail from a raw stack-frame string such
// as "MyApp.Service.DoWork(Int32 id) in /src/service.go:line 42" down to
// the stable "MyApp.Service.DoWork" identity.
func NormalizeFrame(raw string) Frame {
	s := strings.TrimSpace(raw)
	s = lineNumberRe.ReplaceAllString(s, "")
	s = addressRe.ReplaceAllString(s, "")
	s = genericArgRe.ReplaceAllString(s, "")
	if idx := strings.Index(s, " in "); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.Index(s, "("); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	typ, method := s, ""
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		typ, method = s[:idx], s[idx+1:]
	}
	return Frame{Type: typ, Method: method}
}

// SplitFrames normalizes a flattened, newline-separated stack trace into
// its per-line Frame identities, skipping blank lines. It is the bridge
// between a SerializedException's single StackTrace string and the
// frame-by-frame input Compute expects.
func SplitFrames(stackTrace string) []Frame {
	if stackTrace == "" {
		return nil
	}
	lines := strings.Split(stackTrace, "\n")
	frames := make([]Frame, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		frames = append(frames, NormalizeFrame(line))
	}
	return frames
}

// Compute derives a stable fingerprint from the exception's type, message
// and normalized stack frames. The same fault reported twice, even with a
// different timestamp or line number moved by a recompile, produces the
// same fingerprint.
func Compute(exceptionType, message string, frames []Frame) string {
	h := xxhash.New()
	_, _ = h.WriteString(exceptionType)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(message)
	for _, f := range frames {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(f.Type)
		_, _ = h.WriteString(".")
		_, _ = h.WriteString(f.Method)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
