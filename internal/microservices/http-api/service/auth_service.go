package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const tokenTypeAccess = "access"

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

type AuthService interface {
	RequestCode(ctx context.Context, req dto.RequestCodeRequest) (*dto.MessageResponse, error)
	ConfirmCode(ctx context.Context, req dto.ConfirmCodeRequest) (*dto.TokenResponse, error)
	ValidateToken(tokenString string) (*AccessClaims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	redemptions    repository.RedemptionStore
	mailer         Mailer
	codes          *CodeGenerator
	jwtSecret      string
	accessTokenTTL time.Duration
	codeTTL        time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	redemptions repository.RedemptionStore,
	mailer Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		redemptions:    redemptions,
		mailer:         mailer,
		codes:          NewCodeGenerator(cfg.JWTSecret, cfg.ConfirmationCodeTTL),
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		codeTTL:        cfg.ConfirmationCodeTTL,
		now:            time.Now,
		logger:         logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestCode creates the account on first use and mails a confirmation code.
// The response is the same whether or not the account existed.
func (s *authService) RequestCode(ctx context.Context, req dto.RequestCodeRequest) (*dto.MessageResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, NewValidationError("email", "this field is required")
	}

	user, err := s.userRepo.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get or create user: %w", err)
	}

	code := s.codes.Generate(user)
	if err := s.mailer.SendConfirmationCode(ctx, user.Email, code); err != nil {
		s.logger.Error("confirmation code delivery failed", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	s.logger.Info("confirmation code sent", "user_id", user.ID)
	return &dto.MessageResponse{Message: "confirmation code sent to " + user.Email}, nil
}

// ConfirmCode exchanges a valid, unused code for an access token.
func (s *authService) ConfirmCode(ctx context.Context, req dto.ConfirmCodeRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !s.codes.Verify(user, req.ConfirmationCode) {
		return nil, ErrInvalidCode
	}

	fresh, err := s.redemptions.MarkRedeemed(ctx, user.ID+":"+req.ConfirmationCode, s.codeTTL)
	if err != nil {
		s.logger.Error("code redemption failed", "user_id", user.ID, "error", err)
		return nil, err
	}
	if !fresh {
		return nil, ErrInvalidCode
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, fmt.Errorf("touch last login: %w", err)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := AccessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Type:   tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != tokenTypeAccess || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
