package publisher

import (
	"context"
	"os"
	"sync"
)

// FileSink appends one record per line to a single file, adapted from
// internal/sinks/local_file_sink.go with rotation dropped (out of this
// spec's scope; the embedder's own log rotation, if any, owns that file).
type FileSink struct {
	mu   sync.Mutex
	file *os.File
}

func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{file: f}, nil
}

func (f *FileSink) WriteMessage(_ context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.file.WriteString(message + "\n")
	return err
}

func (f *FileSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}
