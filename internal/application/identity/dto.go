package identity

import (
	"time"

	"github.com/google/uuid"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Username string
	Email    string
	Phone    string
	Password string
}

// RegisterResult contains the result of a successful registration
type RegisterResult struct {
	User   UserInfo
	Tokens TokenInfo
}

// LoginInput contains the input for user login. Identifier accepts
// either the username or the email address.
type LoginInput struct {
	Identifier string
	Password   string
	IP         string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	User   UserInfo
	Tokens TokenInfo
}

// TokenInfo carries an issued token pair
type TokenInfo struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// UserInfo contains basic user information returned to callers
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	Email       string
	Phone       string
	Avatar      string
	Role        string
	CreatedAt   time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	Tokens TokenInfo
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string        // Access token JTI to blacklist
	TokenTTL time.Duration // Remaining TTL of the access token
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput contains the input for profile updates.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	UserID      uuid.UUID
	DisplayName *string
	Phone       *string
	Avatar      *string
	Email       *string
}
