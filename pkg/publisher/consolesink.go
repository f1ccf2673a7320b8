package publisher

import (
	"context"
	"fmt"
	"io"
)

// ConsoleSink writes each record as a line to an io.Writer (os.Stdout by
// default), the spec's named console Publisher variant (§4.4).
type ConsoleSink struct {
	w io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (c *ConsoleSink) WriteMessage(_ context.Context, message string) error {
	_, err := fmt.Fprintln(c.w, message)
	return err
}
