package ai

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// ErrEmbedding is the parent of all embedding failures. Callers that only
// care whether the vector side of an operation failed match on this.
var ErrEmbedding = errors.New("embedding failed")

// Specific embedding failure modes, all wrapping ErrEmbedding.
var (
	// ErrUnreachable indicates the embedding service could not be reached.
	ErrUnreachable = fmt.Errorf("%w: service unreachable", ErrEmbedding)

	// ErrShapeMismatch indicates the service returned a result whose count
	// or dimensionality differs from what was requested.
	ErrShapeMismatch = fmt.Errorf("%w: unexpected result shape", ErrEmbedding)

	// ErrModelNotLoaded indicates the configured model is not available on
	// the service.
	ErrModelNotLoaded = fmt.Errorf("%w: model not loaded", ErrEmbedding)
)

// Classify maps a raw client error onto the embedding failure taxonomy.
// Unrecognized errors are wrapped as plain ErrEmbedding.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEmbedding) {
		return err
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	// Clients that stringify transport errors lose the typed chain; fall
	// back to matching the well-known phrases.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "context deadline exceeded"),
		strings.Contains(msg, "i/o timeout"),
		strings.Contains(msg, "unexpected eof"):
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	case strings.Contains(msg, "model") && (strings.Contains(msg, "not found") || strings.Contains(msg, "not loaded")):
		return fmt.Errorf("%w: %v", ErrModelNotLoaded, err)
	default:
		return fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
}
