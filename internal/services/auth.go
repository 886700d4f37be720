package services

import (
	"context"

	"go.uber.org/zap"

	"crm-system/internal/dto"
	"crm-system/internal/repositories"
	"crm-system/pkg/constants"
	apperrors "crm-system/pkg/errors"
	"crm-system/pkg/service"
	"crm-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, data dto.LoginDTO) (*dto.TokenPairDTO, error)
	RefreshToken(ctx context.Context, data dto.RefreshTokenDTO) (*dto.TokenPairDTO, error)
	Me(ctx context.Context, userID uint64) (*dto.UserDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtService service.JWTService, logger *zap.Logger) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (s *AuthService) Login(ctx context.Context, data dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, data.Email)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Status != constants.UserStatusActiveCode {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(user.Password, data.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID, user.Fio, user.Role)
	if err != nil {
		s.logger.Error("Ошибка генерации токенов", zap.Error(err))
		return nil, err
	}

	return &dto.TokenPairDTO{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, data dto.RefreshTokenDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(data.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	// Статус пользователя перепроверяется: отключённый сотрудник
	// не должен продлевать сессию живым refresh-токеном.
	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}
	if user.Status != constants.UserStatusActiveCode {
		return nil, apperrors.ErrInvalidToken
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID, user.Fio, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairDTO{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UserDTO{
		ID:     user.ID,
		Fio:    user.Fio,
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	}, nil
}
