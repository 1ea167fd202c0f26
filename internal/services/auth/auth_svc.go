package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/clock"
	"auctionhouse/internal/models"
	"auctionhouse/internal/repository"
)

var (
	ErrInvalidCredentials = apperrors.New(apperrors.ErrUnauthenticated, "Invalid credentials")
	ErrSessionInvalid     = apperrors.New(apperrors.ErrUnauthenticated, "invalid or expired session")
	ErrPasswordMismatch   = apperrors.New(apperrors.ErrInvalidInput, "passwords do not match")
	ErrEmailTaken         = apperrors.New(apperrors.ErrConflict, "email already registered")
	ErrOldPasswordWrong   = apperrors.New(apperrors.ErrUnauthenticated, "old password is incorrect")
	ErrPasswordUnchanged  = apperrors.New(apperrors.ErrInvalidInput, "new password must differ from the old one")
)

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}

// Session is an issued token and the instant it stops being accepted.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

type LoginFailureRecorder interface {
	RecordLoginFailure()
}

type IAuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	IssueToken(ctx context.Context, user *models.User) (*Session, error)
	// ResolveToken maps a session token back to a live user.
	ResolveToken(ctx context.Context, token string) (*models.User, error)
	SignOut(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) error
}

type Options struct {
	Users           repository.UserRepository
	Roles           repository.RoleRepository
	Hasher          PasswordHasher
	Tokens          *TokenManager
	Revocations     RevocationStore
	DefaultRoleName string
	Failures        LoginFailureRecorder
}

type authService struct {
	users       repository.UserRepository
	roles       repository.RoleRepository
	hasher      PasswordHasher
	tokens      *TokenManager
	revocations RevocationStore
	defaultRole string
	failures    LoginFailureRecorder
}

var _ IAuthService = (*authService)(nil)

func NewAuthService(opts Options) IAuthService {
	svc := &authService{
		users:       opts.Users,
		roles:       opts.Roles,
		hasher:      opts.Hasher,
		tokens:      opts.Tokens,
		revocations: opts.Revocations,
		defaultRole: opts.DefaultRoleName,
		failures:    opts.Failures,
	}
	if svc.revocations == nil {
		svc.revocations = NopRevocationStore{}
	}
	return svc
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	email := NormalizeEmail(in.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "hash password", err)
	}

	now := clock.Now(ctx)
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if s.defaultRole != "" {
		role, err := s.roles.FindByName(ctx, s.defaultRole)
		if err != nil {
			return nil, err
		}
		if role != nil {
			user.RoleID = &role.ID
			user.Role = role
		} else {
			zap.L().Warn("default_role_missing", zap.String("role", s.defaultRole))
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	zap.L().Info("user_registered", zap.String("user_id", user.ID))
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.recordFailure()
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Matches(user.PasswordHash, password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "compare password", err)
	}
	if !ok {
		s.recordFailure()
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) recordFailure() {
	if s.failures != nil {
		s.failures.RecordLoginFailure()
	}
}

func (s *authService) IssueToken(ctx context.Context, user *models.User) (*Session, error) {
	token, claims, err := s.tokens.Issue(user, clock.Now(ctx))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "sign token", err)
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *authService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}
	claims, err := s.tokens.Parse(token, clock.Now(ctx))
	if err != nil {
		return nil, err
	}

	if claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, "check token revocation", err)
		}
		if revoked {
			return nil, ErrSessionInvalid
		}
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrSessionInvalid
	}
	return user, nil
}

// SignOut revokes the token for the rest of its lifetime. Tokens that are
// already invalid need no revocation.
func (s *authService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	now := clock.Now(ctx)
	claims, err := s.tokens.Parse(token, now)
	if err != nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(now)
	if claims.ID == "" || ttl <= 0 {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "revoke token", err)
	}
	zap.L().Info("user_signed_out", zap.String("user_id", claims.Subject))
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrSessionInvalid
	}

	ok, err := s.hasher.Matches(user.PasswordHash, oldPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "compare password", err)
	}
	if !ok {
		return ErrOldPasswordWrong
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if newPassword == oldPassword {
		return ErrPasswordUnchanged
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, clock.Now(ctx)); err != nil {
		return err
	}
	zap.L().Info("password_changed", zap.String("user_id", user.ID))
	return nil
}
