// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package provision

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/clubward/clubward/internal/auth"
	"github.com/clubward/clubward/internal/authz"
	"github.com/clubward/clubward/internal/credential"
	"github.com/clubward/clubward/internal/observability"
)

// Retry policy for timeout-classified writes.
const (
	retryBaseDelay  = 100 * time.Millisecond
	retryMaxRetries = 2
)

// AccountRequest describes one account to provision.
type AccountRequest struct {
	Email       string
	DisplayName string
	Kind        credential.AccountKind
	SuperAdmin  bool
	// ClubID and Role attach an initial membership. Both empty is valid
	// for super-admin accounts.
	ClubID string
	Role   authz.Role
}

// NewAccount is the validated, credentialed record handed to the store.
type NewAccount struct {
	ID           ulid.ULID
	Email        string
	DisplayName  string
	SystemRole   auth.SystemRole
	SuperAdmin   bool
	PasswordHash string
	ClubID       string
	Role         authz.Role
	CreatedAt    time.Time
}

// AccountStore persists provisioned accounts. Implementations report a
// StorageOutcome rather than a bare error so the classifier sees the
// storage layer's signals.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *NewAccount) StorageOutcome
}

// AccountResult is the per-account output of a provisioning run. The
// temporary password is plaintext for one-time delivery to the new user;
// only its hash reaches storage.
type AccountResult struct {
	Request        AccountRequest
	AccountID      ulid.ULID
	TempPassword   string
	Classification Classification
	Err            error
}

// OK reports whether the account was provisioned.
func (r AccountResult) OK() bool {
	return r.Err == nil && r.Classification.OK()
}

// Service provisions accounts: it generates policy-passing temporary
// credentials, hashes them, writes through the store, and classifies
// failures.
type Service struct {
	store  AccountStore
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewService creates a provisioning Service.
func NewService(store AccountStore, hasher auth.PasswordHasher, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, oops.In("provision").Errorf("account store is required")
	}
	if hasher == nil {
		return nil, oops.In("provision").Errorf("password hasher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, hasher: hasher, logger: logger}, nil
}

// CreateAccount provisions a single account. Storage failures are carried
// in the result's Classification, not returned as the error; Err is set
// only for request validation and credential generation failures.
func (s *Service) CreateAccount(ctx context.Context, req AccountRequest) AccountResult {
	result := AccountResult{Request: req}

	account, password, err := s.prepare(req)
	if err != nil {
		result.Err = err
		return result
	}
	result.AccountID = account.ID
	result.TempPassword = password

	operation := "create " + string(req.Kind) + " account"
	outcome := s.writeWithRetry(ctx, account, operation)
	result.Classification = Classify(outcome, operation)

	if result.Classification.OK() {
		observability.RecordAccountProvisioned(string(req.Kind))
		s.logger.Info("account provisioned",
			"account_id", account.ID.String(),
			"email", account.Email,
			"kind", string(req.Kind))
	} else {
		s.logger.Warn("account provisioning failed",
			"account_id", account.ID.String(),
			"email", account.Email,
			"category", string(result.Classification.Category),
			"suggestion", result.Classification.Suggestion)
	}
	return result
}

// CreateAccounts provisions a batch, continuing past individual failures.
func (s *Service) CreateAccounts(ctx context.Context, reqs []AccountRequest) []AccountResult {
	results := make([]AccountResult, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, s.CreateAccount(ctx, req))
	}
	return results
}

func (s *Service) prepare(req AccountRequest) (*NewAccount, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", oops.In("provision").
			Code("PROVISION_INVALID_EMAIL").
			With("email", req.Email).
			Errorf("valid email is required")
	}
	if req.ClubID != "" && !req.Role.Valid() {
		return nil, "", oops.In("provision").
			Code("PROVISION_INVALID_ROLE").
			With("club_id", req.ClubID).
			With("role", string(req.Role)).
			Errorf("club membership requires a valid role")
	}

	password, err := credential.GenerateRolePassword(req.Kind)
	if err != nil {
		return nil, "", err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	systemRole := auth.SystemRoleClubAdmin
	if req.SuperAdmin {
		systemRole = auth.SystemRoleSuperAdmin
	}

	return &NewAccount{
		ID:           ulid.Make(),
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		SystemRole:   systemRole,
		SuperAdmin:   req.SuperAdmin,
		PasswordHash: hash,
		ClubID:       req.ClubID,
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}, password, nil
}

// writeWithRetry attempts the storage write, retrying with exponential
// backoff while the outcome classifies as a timeout.
func (s *Service) writeWithRetry(ctx context.Context, account *NewAccount, operation string) StorageOutcome {
	var outcome StorageOutcome

	backoff := retry.WithMaxRetries(retryMaxRetries, retry.NewExponential(retryBaseDelay))
	_ = retry.Do(ctx, backoff, func(ctx context.Context) error { //nolint:errcheck // last outcome carries the failure
		outcome = s.store.CreateAccount(ctx, account)
		if Classify(outcome, operation).Retryable() {
			s.logger.Debug("retrying timed-out provisioning write",
				"account_id", account.ID.String())
			return retry.RetryableError(oops.Errorf("storage timeout"))
		}
		return nil
	})
	return outcome
}
