package identity

import (
	"context"
	"strings"
	"time"

	"github.com/baysoko/backend/internal/domain/identity"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles registration, authentication and profile
// operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// Register creates a new buyer account and logs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	s.logger.Info("Registration attempt", zap.String("username", input.Username))

	taken, err := s.userRepo.ExistsByUsername(ctx, strings.ToLower(strings.TrimSpace(input.Username)))
	if err != nil {
		s.logger.Error("Failed to check username availability", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
	}
	if taken {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already taken")
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		s.logger.Error("Failed to check email availability", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if taken {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
	}

	user, err := identity.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := user.SetPhone(input.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	tokenPair, err := s.issueTokens(user)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("User registered",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return &RegisterResult{
		User:   toUserInfo(user),
		Tokens: toTokenInfo(tokenPair),
	}, nil
}

// Login authenticates a user by username or email and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	identifier := strings.ToLower(strings.TrimSpace(input.Identifier))
	s.logger.Info("Login attempt", zap.String("identifier", identifier))

	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("identifier", identifier))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	// Check if user can login
	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("identifier", identifier))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later or contact support")
		}
		if user.IsDeactivated() {
			s.logger.Warn("Login attempt for deactivated account", zap.String("identifier", identifier))
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
		}
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	// Verify password
	if !user.VerifyPassword(input.Password) {
		// Record failed attempt
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("identifier", identifier),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}

		s.logger.Warn("Invalid password attempt",
			zap.String("identifier", identifier),
			zap.Int("failed_attempts", user.FailedAttempts))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	tokenPair, err := s.issueTokens(user)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	// Record successful login
	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
		// Don't fail the login - just log the error
	}

	s.logger.Info("User logged in successfully",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		User:   toUserInfo(user),
		Tokens: toTokenInfo(tokenPair),
	}, nil
}

// RefreshToken refreshes the access token using a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	refreshClaims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	// Reject refresh tokens revoked by logout
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, refreshClaims.ID)
		if err != nil {
			s.logger.Error("Blacklist check failed during refresh", zap.Error(err))
		} else if revoked {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
		}
	}

	userID, err := refreshClaims.GetUserUUID()
	if err != nil {
		s.logger.Error("Invalid user ID in refresh token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	// Find user to verify they still exist and are active
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if !user.CanLogin() {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	// Refresh the token pair with the user's current role
	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, string(user.Role))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("Token refreshed successfully", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{Tokens: toTokenInfo(tokenPair)}, nil
}

// Logout revokes the presented access token by blacklisting its JTI
// for its remaining lifetime and invalidating the user's refresh
// tokens issued before now.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout", zap.String("user_id", input.UserID.String()))

	if s.blacklist == nil {
		return nil
	}

	if input.TokenJTI != "" && input.TokenTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
			s.logger.Error("Failed to blacklist token", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
		}
	}

	refreshTTL := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), refreshTTL); err != nil {
		s.logger.Error("Failed to invalidate user tokens", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	return nil
}

// GetProfile retrieves a user's profile
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*UserInfo, error) {
	user, err := s.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	info := toUserInfo(user)
	return &info, nil
}

// UpdateProfile applies the non-nil fields of the input to the
// user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if input.DisplayName != nil {
		if err := user.SetDisplayName(*input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.Phone != nil {
		if err := user.SetPhone(*input.Phone); err != nil {
			return nil, err
		}
	}
	if input.Avatar != nil {
		if err := user.SetAvatar(*input.Avatar); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*input.Email))
		if newEmail != user.Email {
			taken, err := s.userRepo.ExistsByEmail(ctx, newEmail)
			if err != nil {
				s.logger.Error("Failed to check email availability", zap.Error(err))
				return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
			}
			if taken {
				return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
			}
			if err := user.SetEmail(newEmail); err != nil {
				return nil, err
			}
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	info := toUserInfo(user)
	return &info, nil
}

// ChangePassword changes a user's password
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	s.logger.Info("User password changed", zap.String("user_id", input.UserID.String()))

	return nil
}

// BecomeSeller upgrades the user to the seller role. Tokens issued
// before the upgrade keep the buyer role until refreshed.
func (s *AuthService) BecomeSeller(ctx context.Context, userID string) (*UserInfo, error) {
	user, err := s.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.BecomeSeller(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update account")
	}

	s.logger.Info("User became seller", zap.String("user_id", user.ID.String()))

	info := toUserInfo(user)
	return &info, nil
}

func (s *AuthService) findByIdentifier(ctx context.Context, identifier string) (*identity.User, error) {
	if strings.Contains(identifier, "@") {
		return s.userRepo.FindByEmail(ctx, identifier)
	}
	return s.userRepo.FindByUsername(ctx, identifier)
}

func (s *AuthService) findByID(ctx context.Context, userID string) (*identity.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "Invalid user ID")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *identity.User) (*auth.TokenPair, error) {
	return s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
}

func toUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GetDisplayNameOrUsername(),
		Email:       user.Email,
		Phone:       user.Phone.MSISDN(),
		Avatar:      user.Avatar,
		Role:        string(user.Role),
		CreatedAt:   user.CreatedAt,
	}
}

func toTokenInfo(pair *auth.TokenPair) TokenInfo {
	return TokenInfo{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrInvalidToken:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
