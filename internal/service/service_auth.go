// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Redbattlebot/Astrev2/internal/adapter"
	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/metrics"
	"github.com/Redbattlebot/Astrev2/internal/store"
	"github.com/Redbattlebot/Astrev2/internal/utils"
	"github.com/Redbattlebot/Astrev2/internal/validators"
	"github.com/Redbattlebot/Astrev2/models"
)

const accountsTable = "accounts"

// dummyPassword is hashed once and verified against on unknown usernames
// so that a failed lookup costs as much as a wrong password.
const dummyPassword = "mercury-dummy-password"

// AuthStores are the storage dependencies of the auth service.
type AuthStores struct {
	Tx       store.TxRunner
	Identity store.IdentityStore
	Keys     store.KeyLedger
	Accounts store.AccountRepository
	Sessions store.SessionRepository
}

// authService is the concrete implementation of AuthService.
// Accounts and sessions are persisted through the stores; passwords are
// hashed with a PasswordHasher and session tokens are stored only as
// keyed digests.
type authService struct {
	stores    AuthStores
	renderer  adapter.AvatarRenderer
	passwords PasswordHasher
	validator validators.Validator
	digests   *utils.Hasher
	ids       *utils.UUIDGenerator

	registration    config.Registration
	sessionDuration time.Duration
	bodyColours     models.BodyColours

	dummyOnce sync.Once
	dummyHash string

	now      func() time.Time
	newToken func() (string, error)

	collector *metrics.Collector
	logger    *logger.Logger
}

// NewAuthService constructs a new AuthService.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(
	stores AuthStores,
	renderer adapter.AvatarRenderer,
	passwords PasswordHasher,
	cfg config.StructuredConfig,
	collector *metrics.Collector,
	logger *logger.Logger,
) AuthService {
	if renderer == nil {
		renderer = adapter.NopRenderer{}
	}

	colours := cfg.App.DefaultBodyColors
	return &authService{
		stores:          stores,
		renderer:        renderer,
		passwords:       passwords,
		validator:       validators.NewAccountValidator(),
		digests:         utils.NewHasher(cfg.Session.HashKey),
		ids:             utils.NewUUIDGenerator(),
		registration:    cfg.Registration,
		sessionDuration: cfg.Session.Duration,
		bodyColours: models.BodyColours{
			Head:     colours.Head,
			LeftArm:  colours.LeftArm,
			LeftLeg:  colours.LeftLeg,
			RightArm: colours.RightArm,
			RightLeg: colours.RightLeg,
			Torso:    colours.Torso,
		},
		now:       time.Now,
		newToken:  utils.GenerateSessionToken,
		collector: collector,
		logger:    logger,
	}
}

// Login verifies username and password and mints a session.
//
// An unknown username, an account without a stored hash, and a wrong
// password all return ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, username, password string) (session models.Session, err error) {
	defer func() { a.collector.RecordLogin(err) }()
	log := logger.FromContext(ctx)

	account, err := a.stores.Accounts.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrAccountNotFound) {
		a.burnVerification(password)
		log.Info().Str("username", username).Msg("login for unknown username")
		return models.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Msg("account lookup failed")
		return models.Session{}, fmt.Errorf("account lookup failed: %w", err)
	}

	if account.HashedPassword == "" {
		a.burnVerification(password)
		log.Warn().Str("account_id", account.ID).Msg("account has no password hash")
		return models.Session{}, ErrInvalidCredentials
	}

	ok, err := a.passwords.Verify(password, account.HashedPassword)
	if err != nil {
		log.Err(err).Str("account_id", account.ID).Msg("stored password hash is unusable")
		return models.Session{}, ErrInvalidCredentials
	}
	if !ok {
		log.Info().Str("account_id", account.ID).Msg("wrong password")
		return models.Session{}, ErrInvalidCredentials
	}

	return a.issueSession(ctx, account.ID)
}

// Register creates a regular account and mints a session for it.
//
// Checks run in order: password confirmation, input format, username
// uniqueness, email uniqueness (if enabled) and key parsing (if enabled).
// The key is then redeemed in the same transaction that inserts the
// account. Every refusal is a *RegistrationError.
func (a *authService) Register(ctx context.Context, registration models.Registration) (session models.Session, err error) {
	defer func() { a.collector.RecordRegistration(err) }()

	fields := []string{validators.FieldUsername, validators.FieldPassword}
	if a.registration.Emails {
		fields = append(fields, validators.FieldEmail)
	}
	if a.registration.Keys.Enabled {
		fields = append(fields, validators.FieldRegistrationKey)
	}
	if err := a.checkForm(ctx, registration, fields); err != nil {
		return models.Session{}, err
	}

	if err := a.checkUnique(ctx, validators.FieldUsername, registration.Username, KindUsernameTaken); err != nil {
		return models.Session{}, err
	}
	if a.registration.Emails {
		if err := a.checkUnique(ctx, validators.FieldEmail, registration.Email, KindEmailTaken); err != nil {
			return models.Session{}, err
		}
	}

	var keyID string
	if a.registration.Keys.Enabled {
		keyID, err = store.ParseKey(a.registration.Keys.Prefix, registration.RegistrationKey)
		if err != nil {
			return models.Session{}, newRegistrationError(validators.FieldRegistrationKey, KindKeyInvalid, err)
		}
	}

	account, err := a.newAccount(registration, models.PermissionLevelUser, false)
	if err != nil {
		return models.Session{}, err
	}

	created, err := a.createAccount(ctx, account, keyID)
	if err != nil {
		return models.Session{}, err
	}

	logger.FromContext(ctx).Info().
		Str("account_id", created.ID).
		Str("username", created.Username).
		Bool("key_redeemed", keyID != "").
		Msg("account registered")

	a.renderAvatar(ctx, created)

	return a.issueSession(ctx, created.ID)
}

// BootstrapInitialAccount creates the administrative owner account. It
// succeeds only while no account exists; concurrent calls are serialized
// by a transaction-scoped advisory lock.
func (a *authService) BootstrapInitialAccount(ctx context.Context, registration models.Registration) (session models.Session, err error) {
	defer func() { a.collector.RecordRegistration(err) }()

	fields := []string{validators.FieldUsername, validators.FieldInitialPassword}
	if a.registration.Emails {
		fields = append(fields, validators.FieldEmail)
	}
	if err := a.checkForm(ctx, registration, fields); err != nil {
		return models.Session{}, err
	}

	account, err := a.newAccount(registration, models.PermissionLevelOwner, true)
	if err != nil {
		return models.Session{}, err
	}

	var created models.Account
	err = a.stores.Tx.InTx(ctx, func(ctx context.Context, q store.Querier) error {
		if err := store.LockInitialAccount(ctx, q); err != nil {
			return err
		}

		exists, err := a.stores.Identity.Within(q).ExistsWhere(ctx, accountsTable, nil)
		if err != nil {
			return err
		}
		if exists {
			return newRegistrationError(validators.FieldUsername, KindAlreadyRegistered, nil)
		}

		created, err = a.stores.Accounts.Within(q).Create(ctx, account)
		return err
	})
	if err != nil {
		return models.Session{}, a.creationError(ctx, err)
	}

	logger.FromContext(ctx).Info().
		Str("account_id", created.ID).
		Str("username", created.Username).
		Msg("initial account registered")

	a.renderAvatar(ctx, created)

	return a.issueSession(ctx, created.ID)
}

// AccountRegistered reports whether at least one account exists.
func (a *authService) AccountRegistered(ctx context.Context) (bool, error) {
	return a.stores.Identity.ExistsWhere(ctx, accountsTable, nil)
}

// Authenticate resolves token to its session. Unknown and expired tokens
// return ErrSessionInvalid.
func (a *authService) Authenticate(ctx context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrEmptyToken
	}

	session, err := a.stores.Sessions.FindActive(ctx, a.digests.HashString(token))
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.Session{}, ErrSessionInvalid
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("session lookup failed: %w", err)
	}

	if session.Expired(a.now()) {
		return models.Session{}, ErrSessionInvalid
	}

	session.Token = token
	return session, nil
}

func (a *authService) Account(ctx context.Context, id string) (models.Account, error) {
	return a.stores.Accounts.FindByID(ctx, id)
}

// Logout deletes the session behind token. Deleting an unknown token is
// not an error.
func (a *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	if err := a.stores.Sessions.Delete(ctx, a.digests.HashString(token)); err != nil {
		return fmt.Errorf("session deletion failed: %w", err)
	}

	return nil
}

// checkForm compares the password with its confirmation, then validates
// fields.
func (a *authService) checkForm(ctx context.Context, registration models.Registration, fields []string) error {
	if registration.Password != registration.ConfirmPassword {
		return newRegistrationError(validators.FieldConfirmPassword, KindPasswordMismatch, nil)
	}

	err := a.validator.Validate(ctx, registration, fields...)
	if err == nil {
		return nil
	}

	var fieldErr *validators.FieldError
	if errors.As(err, &fieldErr) {
		return newRegistrationError(fieldErr.Field, KindInvalid, fieldErr.Err)
	}
	return newRegistrationError("", KindInvalid, err)
}

// checkUnique fails with kind when an account already has column = value.
func (a *authService) checkUnique(ctx context.Context, column, value string, kind RegistrationErrorKind) error {
	taken, err := a.stores.Identity.ExistsWhere(ctx, accountsTable, squirrel.Eq{column: value})
	if err != nil {
		return fmt.Errorf("%s uniqueness check failed: %w", column, err)
	}
	if taken {
		return newRegistrationError(column, kind, nil)
	}
	return nil
}

func (a *authService) newAccount(registration models.Registration, level int, admin bool) (models.Account, error) {
	hashed, err := a.passwords.Hash(registration.Password)
	if err != nil {
		return models.Account{}, newRegistrationError(validators.FieldPassword, KindCreationFailed, err)
	}

	account := models.Account{
		ID:              a.ids.Generate(),
		Username:        registration.Username,
		HashedPassword:  hashed,
		PermissionLevel: level,
		Admin:           admin,
		BodyColours:     a.bodyColours,
	}
	if a.registration.Emails {
		account.Email = registration.Email
	}

	return account, nil
}

// createAccount redeems keyID (when set) and inserts account in one
// transaction.
func (a *authService) createAccount(ctx context.Context, account models.Account, keyID string) (models.Account, error) {
	var created models.Account
	err := a.stores.Tx.InTx(ctx, func(ctx context.Context, q store.Querier) error {
		if keyID != "" {
			result, err := a.stores.Keys.Within(q).Redeem(ctx, keyID)
			if err != nil {
				return err
			}

			switch result {
			case store.RedemptionNotFound:
				return newRegistrationError(validators.FieldRegistrationKey, KindKeyInvalid, nil)
			case store.RedemptionExhausted:
				return newRegistrationError(validators.FieldRegistrationKey, KindKeyExhausted, nil)
			}
		}

		var err error
		created, err = a.stores.Accounts.Within(q).Create(ctx, account)
		return err
	})
	if err != nil {
		return models.Account{}, a.creationError(ctx, err)
	}

	return created, nil
}

// creationError maps a failed account transaction to a field-scoped error
// where the cause is known. Infrastructure failures pass through.
func (a *authService) creationError(ctx context.Context, err error) error {
	var regErr *RegistrationError
	switch {
	case errors.As(err, &regErr):
		return regErr
	case errors.Is(err, store.ErrUsernameTaken):
		return newRegistrationError(validators.FieldUsername, KindUsernameTaken, err)
	case errors.Is(err, store.ErrEmailTaken):
		return newRegistrationError(validators.FieldEmail, KindEmailTaken, err)
	case errors.Is(err, store.ErrAccountNotReturned):
		logger.FromContext(ctx).Err(err).Msg("account insert returned no record")
		return newRegistrationError(validators.FieldUsername, KindCreationFailed, err)
	default:
		logger.FromContext(ctx).Err(err).Msg("account creation failed")
		return fmt.Errorf("account creation failed: %w", err)
	}
}

// renderAvatar asks the renderer for the default avatar. Failures are
// logged and otherwise ignored.
func (a *authService) renderAvatar(ctx context.Context, account models.Account) {
	if err := a.renderer.RenderAvatar(ctx, account.ID, account.Username); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("account_id", account.ID).
			Msg("avatar render failed")
	}
}

func (a *authService) issueSession(ctx context.Context, accountID string) (models.Session, error) {
	token, err := a.newToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("session token generation failed: %w", err)
	}

	now := a.now().UTC()
	session := models.Session{
		Token:     token,
		AccountID: accountID,
		IssuedAt:  now,
		ExpiresAt: now.Add(a.sessionDuration),
	}

	if err := a.stores.Sessions.Create(ctx, a.digests.HashString(token), session); err != nil {
		logger.FromContext(ctx).Err(err).Str("account_id", accountID).Msg("session creation failed")
		return models.Session{}, fmt.Errorf("session creation failed: %w", err)
	}

	return session, nil
}

// burnVerification spends one hash verification so that failures without
// a stored hash take as long as a wrong password.
func (a *authService) burnVerification(password string) {
	a.dummyOnce.Do(func() {
		hash, err := a.passwords.Hash(dummyPassword)
		if err == nil {
			a.dummyHash = hash
		}
	})
	if a.dummyHash != "" {
		_, _ = a.passwords.Verify(password, a.dummyHash)
	}
}
