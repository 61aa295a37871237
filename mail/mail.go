// Package mail defines the outgoing email channel and its SMTP
// implementation.
package mail

import "context"

// Sender delivers a single HTML email. Implementations must respect ctx
// cancellation; delivery is a blocking I/O boundary and callers bound it
// with a timeout.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
