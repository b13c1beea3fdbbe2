package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SundayYogurt/blog_service/internal/apperr"
	"github.com/SundayYogurt/blog_service/internal/domain"
	"github.com/SundayYogurt/blog_service/internal/dto"
	"github.com/SundayYogurt/blog_service/internal/helper"
	"github.com/SundayYogurt/blog_service/internal/notify"
	"github.com/SundayYogurt/blog_service/internal/repository"
	"gorm.io/gorm"
)

const (
	refreshTokenBytes      = 64
	resetTokenBytes        = 32
	verificationTokenBytes = 32
	resetTokenTTL          = time.Hour
)

type AuthService interface {
	Register(input dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(input dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(refreshToken string) (*dto.TokenPairResponse, error)
	Logout(refreshToken string) error
	Me(userID uint) (*dto.UserResponse, error)
	VerifyEmail(token string) error
	ForgotPassword(email string) error
	ResetPassword(token, password string) error
}

type authService struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	resets repository.PasswordResetRepository
	auth   helper.Auth
	mailer *notify.EmailService
	logger *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	resets repository.PasswordResetRepository,
	auth helper.Auth,
	mailer *notify.EmailService,
	logger *slog.Logger,
) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		resets: resets,
		auth:   auth,
		mailer: mailer,
		logger: logger,
	}
}

func (s *authService) Register(input dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	_, err := s.users.FindByEmail(email)
	if err == nil {
		return nil, apperr.Conflict("Email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := helper.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	verificationToken, err := helper.RandomToken(verificationTokenBytes)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:             email,
		PasswordHash:      hashed,
		Name:              strings.TrimSpace(input.Name),
		Role:              domain.RoleUser,
		VerificationToken: &verificationToken,
	}

	if err := s.users.Create(user); err != nil {
		// lost the race against a concurrent registration
		if helper.IsDuplicateKey(err) {
			return nil, apperr.Conflict("Email already exists")
		}
		return nil, err
	}

	// best effort, never fails the registration
	s.mailer.SendWelcomeEmail(user.Email, user.Name, verificationToken)

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.Uint64("user_id", uint64(user.ID)), slog.String("email", user.Email))

	return &dto.AuthResponse{
		User:         toUserResponse(user),
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *authService) Login(input dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	// unknown email and wrong password are indistinguishable on purpose
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if !helper.CheckPassword(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.Uint64("user_id", uint64(user.ID)), slog.String("email", user.Email))

	return &dto.AuthResponse{
		User:         toUserResponse(user),
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Refresh rotates the presented token: the old one is consumed first and
// a fresh pair is issued. A consumed or unknown token is always rejected,
// so replaying an already used token can never succeed.
func (s *authService) Refresh(refreshToken string) (*dto.TokenPairResponse, error) {
	if refreshToken == "" {
		return nil, apperr.Unauthorized("Refresh token required")
	}

	stored, err := s.tokens.FindByToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}
	if stored.User.DeletedAt.Valid {
		return nil, apperr.Unauthorized("User account deleted")
	}

	// the delete is the point of contention: with two concurrent
	// requests on the same token, only the one that removed the row
	// gets a new pair
	rows, err := s.tokens.DeleteByToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	pair, err := s.issueTokenPair(&stored.User)
	if err != nil {
		return nil, err
	}

	s.logger.Info("token refreshed", slog.Uint64("user_id", uint64(stored.UserID)))
	return pair, nil
}

// Logout is idempotent: removing an already-gone token still succeeds.
func (s *authService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if _, err := s.tokens.DeleteByToken(refreshToken); err != nil {
		return err
	}
	s.logger.Info("user logged out")
	return nil
}

func (s *authService) Me(userID uint) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) VerifyEmail(token string) error {
	if strings.TrimSpace(token) == "" {
		return apperr.BadRequest("Invalid or expired verification token")
	}

	user, err := s.users.FindByVerificationToken(token)
	if err != nil {
		return apperr.BadRequest("Invalid or expired verification token")
	}

	user.EmailVerified = true
	user.VerificationToken = nil
	if err := s.users.Save(user); err != nil {
		return err
	}

	s.logger.Info("email verified", slog.Uint64("user_id", uint64(user.ID)))
	return nil
}

// ForgotPassword never reveals whether the email exists; the handler
// responds with the same body either way.
func (s *authService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil
	}

	token, err := helper.RandomToken(resetTokenBytes)
	if err != nil {
		return err
	}

	reset := &domain.PasswordReset{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resets.Create(reset); err != nil {
		return err
	}

	s.mailer.SendPasswordResetEmail(user.Email, user.Name, token)

	s.logger.Info("password reset requested", slog.Uint64("user_id", uint64(user.ID)))
	return nil
}

func (s *authService) ResetPassword(token, password string) error {
	reset, err := s.resets.FindByToken(token)
	if err != nil {
		return apperr.BadRequest("Invalid or expired reset token")
	}
	if reset.Used || reset.ExpiresAt.Before(time.Now()) {
		return apperr.BadRequest("Invalid or expired reset token")
	}

	hashed, err := helper.HashPassword(password)
	if err != nil {
		return err
	}

	// all three mutations (password, used flag, session invalidation)
	// commit together or not at all
	if err := s.resets.Consume(reset, hashed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.BadRequest("Invalid or expired reset token")
		}
		return err
	}

	s.mailer.SendPasswordChangedEmail(reset.User.Email, reset.User.Name)

	s.logger.Info("password reset successfully", slog.Uint64("user_id", uint64(reset.UserID)))
	return nil
}

func (s *authService) issueTokenPair(user *domain.User) (*dto.TokenPairResponse, error) {
	token, err := s.auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := helper.RandomToken(refreshTokenBytes)
	if err != nil {
		return nil, err
	}

	err = s.tokens.Create(&domain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: s.auth.RefreshTokenExpiry(),
	})
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
