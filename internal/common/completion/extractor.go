// Package completion wraps the natural-language completion service behind a
// single narrow interface and decodes its loosely-typed output into tagged results.
package completion

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrCompletionFailed  = errors.New("COMPLETION_FAILED")
	ErrCompletionTimeout = errors.New("COMPLETION_TIMEOUT")
	ErrMalformedOutput   = errors.New("MALFORMED_OUTPUT")
)

// NLExtractor turns a system prompt and user text into the model's raw reply.
type NLExtractor interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// ExtractorFunc adapts a function to NLExtractor.
type ExtractorFunc func(ctx context.Context, systemPrompt, userText string) (string, error)

func (f ExtractorFunc) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	return f(ctx, systemPrompt, userText)
}

// Result is the tagged outcome of an extraction: either decoded fields or Malformed.
type Result[T any] struct {
	value     T
	malformed bool
	err       error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

func Malformed[T any](err error) Result[T] {
	if err == nil {
		err = ErrMalformedOutput
	}
	return Result[T]{malformed: true, err: err}
}

// Get returns the decoded value and whether the result is Ok.
func (r Result[T]) Get() (T, bool) {
	return r.value, !r.malformed
}

// OrDefault returns the decoded value, or def when malformed.
func (r Result[T]) OrDefault(def T) T {
	if r.malformed {
		return def
	}
	return r.value
}

func (r Result[T]) IsMalformed() bool { return r.malformed }

// Err explains a Malformed result; nil when Ok.
func (r Result[T]) Err() error { return r.err }

// Extract calls the extractor and decodes its reply into T. Any failure,
// transport or decode, yields Malformed so callers substitute their default.
func Extract[T any](ctx context.Context, ex NLExtractor, dec *Decoder, systemPrompt, userText string) Result[T] {
	raw, err := ex.Complete(ctx, systemPrompt, userText)
	if err != nil {
		if errors.Is(err, ErrCompletionTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return Malformed[T](fmt.Errorf("%w: %v", ErrCompletionTimeout, err))
		}
		return Malformed[T](fmt.Errorf("%w: %v", ErrCompletionFailed, err))
	}

	var out T
	if err := dec.Decode(raw, &out); err != nil {
		return Malformed[T](err)
	}
	return Ok(out)
}
