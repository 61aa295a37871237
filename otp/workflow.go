// Package otp implements the one-time-code workflow shared by account
// verification and password reset. The two purposes differ only in their
// expiry window; what to mutate after a successful validation is decided by
// the caller, which keeps the workflow purpose-agnostic.
package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/avolkov/authcore/common"
	"github.com/avolkov/authcore/models"
)

// Purpose selects the expiry window of an issued code.
type Purpose int

const (
	PurposeVerification Purpose = iota
	PurposePasswordReset
)

func (p Purpose) String() string {
	switch p {
	case PurposeVerification:
		return "verification"
	case PurposePasswordReset:
		return "password-reset"
	default:
		return "unknown"
	}
}

func (p Purpose) emailSubject() string {
	if p == PurposePasswordReset {
		return "Your password reset code"
	}
	return "Please verify your email"
}

// Sender is the subset of the mail channel the workflow needs.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Workflow issues one-time codes to accounts and validates presented codes
// against them.
type Workflow struct {
	sender               Sender
	verificationValidity time.Duration
	resetValidity        time.Duration
	mailTimeout          time.Duration

	// Now is a seam for tests that need to move the clock.
	Now func() time.Time
}

func NewWorkflow(sender Sender, verificationValidity, resetValidity, mailTimeout time.Duration) *Workflow {
	return &Workflow{
		sender:               sender,
		verificationValidity: verificationValidity,
		resetValidity:        resetValidity,
		mailTimeout:          mailTimeout,
		Now:                  time.Now,
	}
}

func (w *Workflow) validity(p Purpose) time.Duration {
	if p == PurposePasswordReset {
		return w.resetValidity
	}
	return w.verificationValidity
}

// Issue generates a fresh code, delivers it to the account's email address,
// and only after confirmed delivery attaches it (with its expiry) to the
// account in place of any prior pending code. The mutated account is NOT
// persisted here; the caller saves it, so a delivery failure leaves no
// stranded code anywhere. Delivery failures surface as
// common.ErrDeliveryFailed.
func (w *Workflow) Issue(ctx context.Context, account *models.Account, purpose Purpose) error {
	code, err := GenerateCode()
	if err != nil {
		return fmt.Errorf("code generation error: %w", err)
	}

	body := fmt.Sprintf("<html><body>Please use the following code: %s</body></html>", code)

	sendCtx, cancel := context.WithTimeout(ctx, w.mailTimeout)
	defer cancel()
	if err := w.sender.Send(sendCtx, account.Email, purpose.emailSubject(), body); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeliveryFailed, err)
	}

	account.SetPendingCode(code, w.Now().Add(w.validity(purpose)))
	return nil
}

// Validate checks the presented code against the account's pending one.
// A missing or past expiry yields common.ErrCodeExpired; a value mismatch
// yields common.ErrCodeMismatch (exact string equality, no normalization).
// On success nothing is mutated: verify and reset have different
// post-conditions, so clearing the code is the caller's responsibility.
func (w *Workflow) Validate(account *models.Account, presented string) error {
	if account.CodeExpiresAt == nil || account.CodeExpiresAt.Before(w.Now()) {
		return common.ErrCodeExpired
	}
	if account.PendingCode == nil || *account.PendingCode != presented {
		return common.ErrCodeMismatch
	}
	return nil
}
