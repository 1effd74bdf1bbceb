package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"github.com/ikkim/fictionhub-backend/pkg/redis"
	"github.com/ikkim/fictionhub-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService interface {
	Register(input model.RegisterInput) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Logout(token string, claims *util.Claims) error
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, input model.ProfileInput) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// 가입으로 선택 가능한 역할은 독자/작가뿐
func signupRole(requested model.UserRole) model.UserRole {
	if requested == model.RoleAuthor {
		return model.RoleAuthor
	}
	return model.RoleUser
}

// session 로그인/가입 공통: 토큰 발급 후 사용자와 함께 반환
func (s *authService) session(user *model.User) (*model.User, *util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role),
		s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		logger.Error("Failed to sign tokens", err, logger.Fields{"user_id": user.ID})
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *authService) Register(input model.RegisterInput) (*model.User, *util.TokenPair, error) {
	if err := util.ValidatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	taken, err := s.userRepo.ExistsByEmail(input.Email)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		logger.Warn("Registration rejected: email in use", logger.Fields{"email": input.Email})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashed, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: hashed,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Role:         signupRole(input.Role),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, err
	}

	logger.Info("Account created", logger.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return s.session(user)
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil, ErrInvalidCredentials
	case err != nil:
		logger.Error("Credential lookup failed", err)
		return nil, nil, err
	}

	// 존재하지 않는 계정과 비밀번호 오류는 같은 에러로 응답
	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Password mismatch", logger.Fields{"user_id": user.ID})
		return nil, nil, ErrInvalidCredentials
	}
	return s.session(user)
}

// Logout 남은 유효기간 동안 access token 을 블랙리스트에 등록 (Redis 미설정 시 no-op)
func (s *authService) Logout(token string, claims *util.Claims) error {
	remaining := util.TokenRemainingLifetime(claims)
	if !redis.Enabled() || remaining <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redis.BlacklistToken(ctx, token, remaining); err != nil {
		logger.Error("Failed to revoke token", err, logger.Fields{"user_id": claims.UserID})
		return err
	}
	logger.Info("Token revoked", logger.Fields{
		"user_id":     claims.UserID,
		"remaining_s": int(remaining.Seconds()),
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile 표시 이름 변경, 이미 작성된 댓글/리뷰에도 새 이름이 노출됨
func (s *authService) UpdateProfile(userID uint, input model.ProfileInput) (*model.User, error) {
	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		return nil, ErrEmptyName
	}

	err := s.userRepo.UpdateDisplayName(userID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(userID)
}
