// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"

	deliverycontext "postboard/internal/delivery/context"
	"postboard/internal/domain/entity"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/repository"
	"postboard/internal/domain/service"
	"postboard/internal/errors"
	"postboard/internal/infra/validation"
	"postboard/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	validator    *validation.Validator
	logger       *slog.Logger

	decoyOnce sync.Once
	decoyHash string
}

// decoyPassword is hashed once so unknown usernames still pay for a bcrypt comparison.
const decoyPassword = "postboard-login-decoy"

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		validator:    validation.New(),
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the input, checks username then email availability,
// hashes the password and stores the new account.
func (srv *accountService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.UserSummary, error) {
	if err := srv.validator.Validate(input); err != nil {
		return nil, err
	}
	if len(input.Password) > service.MaxPasswordBytes {
		return nil, domainerrors.ErrValidationFailed.WithDetails("password must be at most 72 bytes")
	}

	if err := srv.ensureAvailable(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, service.ErrPasswordTooLong) || errors.Is(err, service.ErrPasswordEmpty) {
			return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
		}
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInternalError, "failed to generate user id")
	}

	user := &entity.User{
		ID:           id,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can still win the race; the unique constraints report it.
		if errors.Is(err, domainerrors.ErrUsernameTaken) || errors.Is(err, domainerrors.ErrEmailTaken) {
			return nil, err
		}
		srv.log(ctx).Error("Failed to create user", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create user")
	}

	srv.log(ctx).Info("User registered", slog.String("username", user.Username), slog.String("userID", user.ID.String()))

	return &usecase.UserSummary{
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

func (srv *accountService) ensureAvailable(ctx context.Context, username, email string) error {
	_, err := srv.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return domainerrors.ErrUsernameTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return errors.Wrap(err, "failed to look up username")
	}

	_, err = srv.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domainerrors.ErrEmailTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return errors.Wrap(err, "failed to look up email")
	}

	return nil
}

// loginDecoyHash lazily hashes decoyPassword with the configured cost.
func (srv *accountService) loginDecoyHash(ctx context.Context) string {
	srv.decoyOnce.Do(func() {
		hash, err := srv.hasher.Hash(decoyPassword)
		if err != nil {
			srv.log(ctx).Error("Failed to prepare login decoy hash", slog.Any("error", err))

			return
		}
		srv.decoyHash = hash
	})

	return srv.decoyHash
}

// Login verifies the credentials and issues an access token whose subject is the username.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (srv *accountService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	if err := srv.validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.hasher.Check(input.Password, srv.loginDecoyHash(ctx))
			srv.log(ctx).Info("Login rejected", slog.String("reason", "unknown_user"))

			return nil, domainerrors.ErrAuthFailed
		}

		return nil, errors.Wrap(err, "failed to look up user")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Info("Login rejected", slog.String("reason", "password_mismatch"))

		return nil, domainerrors.ErrAuthFailed
	}

	token, expiresAt, err := srv.tokenService.Issue(user.Username, srv.tokenService.DefaultTTL())
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	return &usecase.LoginOutput{
		Token:     token,
		TokenType: usecase.TokenTypeBearer,
		ExpiresAt: expiresAt,
	}, nil
}
