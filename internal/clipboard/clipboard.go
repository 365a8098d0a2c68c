// Package clipboard copies session IDs to the system clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/gopasspw/clipboard"
)

// ErrUnavailable is returned on platforms without clipboard support
var ErrUnavailable = errors.New("clipboard is not available on this system")

// CopySecret copies a session ID or other secret to the system clipboard.
// WritePassword keeps the value out of clipboard managers where supported.
func CopySecret(ctx context.Context, secret string) error {
	if !IsAvailable() {
		return ErrUnavailable
	}
	if err := clipboard.WritePassword(ctx, []byte(secret)); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// IsAvailable checks if clipboard functionality is available
func IsAvailable() bool {
	return !clipboard.IsUnsupported()
}
