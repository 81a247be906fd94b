package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const readBufferSize = 4096

// Ingest lazily decodes r into transcript updates. Reads happen only while the
// caller keeps pulling. The sequence ends after [DONE], at end of input, or with
// a single non-nil error (read failure, context cancellation, upstream error).
// Updates yielded before an error stay valid.
func Ingest(ctx context.Context, r io.Reader) iter.Seq2[Update, error] {
	return func(yield func(Update, error) bool) {
		p := NewParser()
		src := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
		buf := make([]byte, readBufferSize)

		emit := func(updates []Update, err error) bool {
			for _, u := range updates {
				if !yield(u, nil) {
					return false
				}
			}
			if err != nil {
				yield(Update{}, err)
				return false
			}
			return true
		}

		for {
			if err := ctx.Err(); err != nil {
				yield(Update{}, err)
				return
			}
			n, readErr := src.Read(buf)
			if n > 0 {
				if !emit(p.Feed(buf[:n])) || p.Done() {
					return
				}
			}
			if errors.Is(readErr, io.EOF) {
				emit(p.Flush())
				return
			}
			if readErr != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					readErr = ctxErr
				}
				yield(Update{}, fmt.Errorf("failed to read stream: %w", readErr))
				return
			}
		}
	}
}
