// Package serializer provides the single JSON serialization surface used
// throughout this module, so every component agrees on casing, null
// handling and escaping without each one configuring encoding/json itself.
package serializer

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/apperr"
)

// Options controls how the shared Serializer encodes and decodes values.
type Options struct {
	// WriteIndented pretty-prints output with a two-space indent. Off by
	// default: the wire format (§6) is compact JSON.
	WriteIndented bool
	// UnsafeRelaxedEscaping disables HTML-safe escaping of '<', '>' and '&'
	// in string values. Off by default.
	UnsafeRelaxedEscaping bool
}

var (
	mu      sync.Mutex
	applied *Options
)

// Init configures the process-wide Serializer. It is idempotent: calling it
// again with options identical to the ones already applied is a silent
// no-op. Calling it again with different options is an initialization
// error, since two components disagreeing about wire format is a
// programming bug, not a runtime condition to recover from.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	if applied == nil {
		o := opts
		applied = &o
		return nil
	}
	if *applied == opts {
		return nil
	}
	return apperr.Initialization("serializer", "Init", "Serializer already initialized with different options", nil)
}

func currentOptions() Options {
	mu.Lock()
	defer mu.Unlock()
	if applied == nil {
		return Options{}
	}
	return *applied
}

// Serialize encodes v as JSON using the configured options.
func Serialize(v interface{}) (string, error) {
	opts := currentOptions()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(!opts.UnsafeRelaxedEscaping)
	if opts.WriteIndented {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return "", apperr.Serialization("serializer", "Serialize", "failed to encode value", err)
	}
	// json.Encoder.Encode appends a trailing newline; the wire format (§6)
	// doesn't want it.
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Deserialize decodes JSON text into T. encoding/json already matches
// struct fields case-insensitively when no exact match exists, satisfying
// the "case-insensitive deserialize" requirement without extra code.
func Deserialize[T any](data string) (T, error) {
	var v T
	dec := json.NewDecoder(strings.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		return v, apperr.Serialization("serializer", "Deserialize", "failed to decode value", err)
	}
	return v, nil
}
