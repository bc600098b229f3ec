package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"usinahub/usinahub-backend/internal/config"
	"usinahub/usinahub-backend/internal/mailer"
	"usinahub/usinahub-backend/pkg/apperrors"
)

type Service struct {
	repo   Repository
	mailer mailer.Mailer
	cfg    config.SecurityConfig
	front  config.FrontendConfig
	logger *zap.Logger
}

func NewService(repo Repository, m mailer.Mailer, cfg config.SecurityConfig, front config.FrontendConfig, logger *zap.Logger) *Service {
	return &Service{repo: repo, mailer: m, cfg: cfg, front: front, logger: logger}
}

type Claims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Validation("já existe um usuário com este e-mail")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         RoleUser,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the user plus a signed session token.
func (s *Service) Login(ctx context.Context, input LoginInput) (*User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperrors.Unauthorized("e-mail ou senha incorretos")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", apperrors.Unauthorized("e-mail ou senha incorretos")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) issueToken(user *User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("sessão inválida ou expirada")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperrors.Unauthorized("sessão inválida ou expirada")
	}
	return claims, nil
}

func (s *Service) GetUser(ctx context.Context, id uint) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("usuário não encontrado")
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

func (s *Service) ChangePassword(ctx context.Context, userID uint, input ChangePasswordInput) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return apperrors.Validation("senha atual incorreta")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return s.repo.UpdateUser(ctx, user)
}

// RequestPasswordReset creates a reset token and emails a link to the user.
// Always succeeds from the caller's perspective to avoid account probing.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	reset := &PasswordResetToken{
		Token:     uuid.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.cfg.ResetTokenTTL),
	}
	if err := s.repo.CreateResetToken(ctx, reset); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.front.BaseURL, reset.Token)
	body := fmt.Sprintf(
		"<p>Olá %s,</p><p>Recebemos um pedido de redefinição de senha. "+
			"<a href=%q>Clique aqui</a> para escolher uma nova senha. O link expira em 1 hora.</p>",
		user.Name, link)
	if err := s.mailer.Send(ctx, user.Email, "Redefinição de senha", body); err != nil {
		s.logger.Error("failed to send reset email", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	return nil
}

type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (s *Service) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	tokenID, err := uuid.Parse(input.Token)
	if err != nil {
		return apperrors.Validation("token de redefinição inválido")
	}
	reset, err := s.repo.GetResetToken(ctx, tokenID)
	if err != nil {
		return err
	}
	if reset == nil || reset.Used || time.Now().After(reset.ExpiresAt) {
		return apperrors.Validation("token de redefinição inválido ou expirado")
	}

	user, err := s.GetUser(ctx, reset.UserID)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return err
	}
	return s.repo.MarkResetTokenUsed(ctx, reset.ID)
}

// PurgeExpiredResetTokens removes stale tokens. Run from a cron job.
func (s *Service) PurgeExpiredResetTokens(ctx context.Context) error {
	n, err := s.repo.DeleteExpiredResetTokens(ctx, time.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("purged expired reset tokens", zap.Int64("count", n))
	}
	return nil
}
