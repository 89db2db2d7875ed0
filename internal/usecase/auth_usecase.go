package usecase

import (
	"context"
	"errors"

	"skillswap/internal/domain/user"
	"skillswap/internal/pkg/jwt"
	ucauth "skillswap/internal/usecase/auth"

	"github.com/google/uuid"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, string, string, error)
	Login(ctx context.Context, in ucauth.LoginInput) (user.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	VerifyEmail(ctx context.Context, userID uuid.UUID) error
}

type Auth struct {
	authSvc *ucauth.Service
	jwt     jwt.Service
}

func NewAuthUsecase(authSvc *ucauth.Service, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: authSvc, jwt: jwtSvc}
}

func (a *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, string, string, error) {
	u, err := a.authSvc.Register(ctx, in)
	if err != nil {
		return user.User{}, "", "", err
	}
	access, refresh, err := a.issueTokens(u)
	if err != nil {
		return user.User{}, "", "", ErrInternal
	}
	return u, access, refresh, nil
}

func (a *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.User, string, string, error) {
	u, err := a.authSvc.Login(ctx, in)
	if err != nil {
		return user.User{}, "", "", err
	}
	access, refresh, err := a.issueTokens(u)
	if err != nil {
		return user.User{}, "", "", ErrInternal
	}
	return u, access, refresh, nil
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := a.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}

	access, err := a.jwt.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return "", "", ErrInternal
	}
	refresh, err := a.jwt.GenerateRefreshToken(claims.UserID)
	if err != nil {
		return "", "", ErrInternal
	}
	return access, refresh, nil
}

func (a *Auth) VerifyEmail(ctx context.Context, userID uuid.UUID) error {
	return a.authSvc.VerifyEmail(ctx, userID)
}

func (a *Auth) issueTokens(u user.User) (string, string, error) {
	access, err := a.jwt.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return "", "", err
	}
	refresh, err := a.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
