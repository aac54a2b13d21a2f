package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/repos"
	"github.com/davidcw/studyhall-backend/internal/requestdata"
	"github.com/davidcw/studyhall-backend/internal/types"
)

// AuthService is the authentication stand-in: it mints throwaway accounts
// from a display name and role, with short-lived JWT access tokens and a
// stored refresh token. There are no credentials to verify.
type AuthService interface {
	TempLogin(ctx context.Context, displayName, role string) (*types.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	users        repos.UserRepo
	userTokens   repos.UserTokenRepo
	jwtSecretKey string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	users repos.UserRepo,
	userTokens repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		users:        users,
		userTokens:   userTokens,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

func (s *authService) TempLogin(ctx context.Context, displayName, role string) (*types.User, string, string, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, "", "", fmt.Errorf("display_name is required")
	}
	switch role {
	case types.RoleLearner, types.RoleFacilitator:
	default:
		role = types.RoleLearner
	}

	user := &types.User{
		ID:          uuid.New(),
		DisplayName: displayName,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}

	var accessToken, refreshToken string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.users.Create(dbc, []*types.User{user}); err != nil {
			return fmt.Errorf("create temp user: %w", err)
		}
		var err error
		accessToken, refreshToken, err = s.issueTokens(dbc, user)
		return err
	})
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", "", ErrInvalidToken
	}

	var accessToken, newRefreshToken string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		stored, err := s.userTokens.GetByRefreshToken(dbc, refreshToken)
		if err != nil {
			return fmt.Errorf("lookup refresh token: %w", err)
		}
		if stored == nil || stored.ExpiresAt.Before(time.Now()) {
			return ErrInvalidToken
		}
		userRows, err := s.users.GetByIDs(dbc, []uuid.UUID{stored.UserID})
		if err != nil || len(userRows) == 0 {
			return ErrInvalidToken
		}
		if err := s.userTokens.DeleteByUserID(dbc, stored.UserID); err != nil {
			return fmt.Errorf("rotate refresh token: %w", err)
		}
		accessToken, newRefreshToken, err = s.issueTokens(dbc, userRows[0])
		return err
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (s *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return ErrInvalidToken
	}
	return s.userTokens.DeleteByUserID(dbctx.Context{Ctx: ctx}, rd.UserID)
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, ErrInvalidToken
	}
	displayName, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		DisplayName: displayName,
		Role:        role,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (s *authService) GetAccessTTL() time.Duration {
	return s.accessTTL
}

func (s *authService) issueTokens(dbc dbctx.Context, user *types.User) (string, string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"name": user.DisplayName,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecretKey))
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	refreshToken := uuid.New().String()
	row := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.refreshTTL),
		CreatedAt:    now,
	}
	if _, err := s.userTokens.Create(dbc, []*types.UserToken{row}); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}
