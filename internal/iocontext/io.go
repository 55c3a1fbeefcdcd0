// Package iocontext carries the command's I/O streams on the context so
// commands and tests can swap them.
package iocontext

import (
	"context"
	"io"
	"os"
)

// IO holds the streams a command reads from and writes to.
type IO struct {
	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader
}

// DefaultIO returns the process streams.
func DefaultIO() *IO {
	return &IO{Out: os.Stdout, ErrOut: os.Stderr, In: os.Stdin}
}

// Buffered returns IO backed by the given writers with an empty stdin.
func Buffered(out, errOut io.Writer) *IO {
	return &IO{Out: out, ErrOut: errOut, In: eofReader{}}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

type ioKey struct{}

// WithIO stores streams on ctx.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO returns the streams stored on ctx, or the process streams.
func GetIO(ctx context.Context) *IO {
	if ctx != nil {
		if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
			return streams
		}
	}
	return DefaultIO()
}
