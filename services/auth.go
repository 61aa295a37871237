// Package services contains the business logic of the authentication core.
// This file implements AuthService, which composes the credential check, the
// one-time-code workflow, the token issuer, and the revocation registry into
// the user-facing operations and enforces the account-state rules between
// them.
package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avolkov/authcore/authctx"
	"github.com/avolkov/authcore/common"
	"github.com/avolkov/authcore/config"
	"github.com/avolkov/authcore/dbx"
	"github.com/avolkov/authcore/logging"
	"github.com/avolkov/authcore/models"
	"github.com/avolkov/authcore/otp"
	"github.com/avolkov/authcore/repositories/repomanager"
	"github.com/avolkov/authcore/revocation"
	"github.com/avolkov/authcore/token"
)

// emailPattern is the fixed discriminator between email-shaped identifiers
// and plain usernames at login.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// AuthService provides the authentication operations:
//   - Login / Logout: verify credentials, mint and revoke session tokens
//   - Signup / VerifyUser / ResendVerificationCode: account creation and
//     email verification
//   - RequestPasswordReset / ResetPassword: the reset-code flow
//   - Authenticate: the per-request token check (revocation + claims)
type AuthService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	issuer     *token.Issuer
	codes      *otp.Workflow
	registry   revocation.Registry
	log        logging.Logger
	validate   *validator.Validate
	bcryptCost int
}

// NewAuthService constructs an AuthService from its collaborators and config.
func NewAuthService(
	db *sql.DB,
	repos repomanager.RepositoryManager,
	issuer *token.Issuer,
	codes *otp.Workflow,
	registry revocation.Registry,
	cfg *config.Config,
	log logging.Logger,
) *AuthService {
	return &AuthService{
		db:         db,
		repos:      repos,
		issuer:     issuer,
		codes:      codes,
		registry:   registry,
		log:        log,
		validate:   validator.New(),
		bcryptCost: cfg.BcryptCost,
	}
}

// Login verifies the identifier+secret pair and mints a session token.
// Unverified accounts are rejected with common.ErrAccountNotVerified so the
// client can prompt for (re)verification; an unknown identifier and a wrong
// secret are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, common.ErrValidation
	}

	account, err := s.verifyCredentials(ctx, req.Identifier, req.Secret)
	if err != nil {
		return nil, err
	}

	if !account.Enabled {
		return nil, common.ErrAccountNotVerified
	}

	roleNames, err := s.activeRoles(ctx, account.ID)
	if err != nil {
		s.log.Error(ctx, "role lookup failed", "account_id", account.ID, "error", err)
		return nil, common.ErrInternal
	}

	tokenString, expiresIn, err := s.issuer.Issue(account.ID, account.Username, roleNames)
	if err != nil {
		s.log.Error(ctx, "token issue failed", "account_id", account.ID, "error", err)
		return nil, common.ErrInternal
	}

	s.log.Info(ctx, "login succeeded", "account_id", account.ID)
	return &LoginResult{Token: tokenString, ExpiresIn: expiresIn}, nil
}

// verifyCredentials resolves the identifier to exactly one account and
// compares the secret against the stored bcrypt hash. Both failure cases
// surface as common.ErrInvalidCredentials; the log keeps them apart.
func (s *AuthService) verifyCredentials(ctx context.Context, identifier, secret string) (*models.Account, error) {
	repo := s.repos.Accounts(s.db)

	var account *models.Account
	var err error
	if emailPattern.MatchString(identifier) {
		account, err = repo.FindByEmail(ctx, identifier)
	} else {
		account, err = repo.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Info(ctx, "login rejected: unknown identifier")
			return nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(secret)); err != nil {
		s.log.Info(ctx, "login rejected: secret mismatch", "account_id", account.ID)
		return nil, common.ErrInvalidCredentials
	}

	return account, nil
}

// Signup creates a disabled account with the default role and a pending
// verification code. The email/username uniqueness checks run in that order;
// the code is delivered before anything is persisted, so a delivery failure
// creates no record.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*models.Account, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, common.ErrValidation
	}

	repo := s.repos.Accounts(s.db)

	if _, err := repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, common.ErrEmailTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		s.log.Error(ctx, "email lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	if _, err := repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, common.ErrUsernameTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		s.log.Error(ctx, "username lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Secret), s.bcryptCost)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrInternal
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Enabled:      false,
	}

	if err := s.codes.Issue(ctx, account, otp.PurposeVerification); err != nil {
		s.log.Warn(ctx, "verification code delivery failed", "email", req.Email, "error", err)
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Accounts(tx).Create(ctx, account); err != nil {
			return err
		}
		role, err := s.repos.Roles(tx).FindByName(ctx, models.DefaultRoleName)
		if err != nil {
			return err
		}
		return s.repos.Roles(tx).Assign(ctx, account.ID, role.ID, true)
	})
	if err != nil {
		// A signup racing us past the existence checks loses here instead.
		if errors.Is(err, common.ErrEmailTaken) || errors.Is(err, common.ErrUsernameTaken) {
			return nil, err
		}
		s.log.Error(ctx, "signup persist failed", "error", err)
		return nil, common.ErrInternal
	}

	s.log.Info(ctx, "account created", "account_id", account.ID)
	return account, nil
}

// VerifyUser validates the presented code and enables the account, clearing
// the pending code in the same write.
func (s *AuthService) VerifyUser(ctx context.Context, req VerifyRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return common.ErrValidation
	}

	repo := s.repos.Accounts(s.db)
	account, err := repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return s.lookupErr(ctx, err)
	}

	if err := s.codes.Validate(account, req.Code); err != nil {
		return err
	}

	account.Enabled = true
	account.ClearPendingCode()
	if err := repo.Update(ctx, account); err != nil {
		return s.updateErr(ctx, account.ID, err)
	}

	s.log.Info(ctx, "account verified", "account_id", account.ID)
	return nil
}

// ResendVerificationCode replaces the pending verification code on an
// unverified account. Verified accounts get common.ErrAlreadyVerified.
func (s *AuthService) ResendVerificationCode(ctx context.Context, req EmailRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return common.ErrValidation
	}

	repo := s.repos.Accounts(s.db)
	account, err := repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return s.lookupErr(ctx, err)
	}

	if account.Enabled {
		return common.ErrAlreadyVerified
	}

	if err := s.codes.Issue(ctx, account, otp.PurposeVerification); err != nil {
		return err
	}
	if err := repo.Update(ctx, account); err != nil {
		return s.updateErr(ctx, account.ID, err)
	}

	return nil
}

// RequestPasswordReset issues a reset code with the shorter expiry window.
// The account's verified state is deliberately not checked: a reset can be
// requested before the account is ever verified.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req EmailRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return common.ErrValidation
	}

	repo := s.repos.Accounts(s.db)
	account, err := repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return s.lookupErr(ctx, err)
	}

	if err := s.codes.Issue(ctx, account, otp.PurposePasswordReset); err != nil {
		return err
	}
	if err := repo.Update(ctx, account); err != nil {
		return s.updateErr(ctx, account.ID, err)
	}

	s.log.Info(ctx, "password reset requested", "account_id", account.ID)
	return nil
}

// ResetPassword validates the reset code and replaces the secret hash,
// clearing the pending code in the same write.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return common.ErrValidation
	}

	repo := s.repos.Accounts(s.db)
	account, err := repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return s.lookupErr(ctx, err)
	}

	if err := s.codes.Validate(account, req.Code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewSecret), s.bcryptCost)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return common.ErrInternal
	}

	account.PasswordHash = string(hash)
	account.ClearPendingCode()
	if err := repo.Update(ctx, account); err != nil {
		return s.updateErr(ctx, account.ID, err)
	}

	s.log.Info(ctx, "password reset", "account_id", account.ID)
	return nil
}

// Logout revokes the token. Revoking a token that is already revoked is a
// no-op, so repeated logouts with the same token succeed.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return common.ErrValidation
	}

	if err := s.registry.Revoke(ctx, tokenString); err != nil {
		s.log.Error(ctx, "token revocation failed", "error", err)
		return common.ErrInternal
	}

	s.log.Info(ctx, "token revoked")
	return nil
}

// Authenticate is the per-request token check: the revocation registry is
// consulted before the claims are trusted, so a logged-out token is rejected
// even while its signature and expiry are still valid. On success the
// principal is attached to the returned context.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (context.Context, error) {
	revoked, err := s.registry.IsRevoked(ctx, tokenString)
	if err != nil {
		s.log.Error(ctx, "revocation check failed", "error", err)
		return ctx, common.ErrInternal
	}
	if revoked {
		return ctx, common.ErrTokenRevoked
	}

	claims, err := s.issuer.Parse(tokenString)
	if err != nil {
		return ctx, err
	}

	return authctx.WithPrincipal(ctx, authctx.Principal{
		UserID:   claims.Subject,
		Username: claims.Username,
		Roles:    claims.Roles,
	}), nil
}

// --- helpers below ---

func (s *AuthService) activeRoles(ctx context.Context, accountID string) ([]string, error) {
	assignments, err := s.repos.Roles(s.db).ListForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, a := range assignments {
		if a.Active {
			names = append(names, a.RoleName)
		}
	}
	return names, nil
}

func (s *AuthService) lookupErr(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrNotFound
	}
	s.log.Error(ctx, "account lookup failed", "error", err)
	return common.ErrInternal
}

func (s *AuthService) updateErr(ctx context.Context, accountID string, err error) error {
	if errors.Is(err, common.ErrVersionConflict) {
		s.log.Warn(ctx, "concurrent account update", "account_id", accountID)
		return common.ErrVersionConflict
	}
	s.log.Error(ctx, "account update failed", "account_id", accountID, "error", err)
	return common.ErrInternal
}
