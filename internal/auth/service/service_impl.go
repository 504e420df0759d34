package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	authdomain "github.com/billhive/billhive/internal/auth/domain"
	"github.com/billhive/billhive/internal/config"
	pkgdb "github.com/billhive/billhive/pkg/db"
)

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Config config.Config
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	secret   []byte
	tokenTTL time.Duration
}

func NewService(p ServiceParam) authdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		secret:   []byte(p.Config.AuthJWTSecret),
		tokenTTL: time.Duration(p.Config.AuthTokenTTL) * time.Hour,
	}
}

func (s *Service) Register(ctx context.Context, req authdomain.RegisterRequest) (authdomain.User, error) {
	username := strings.TrimSpace(strings.ToLower(req.Username))
	if username == "" || len(req.Password) < 6 {
		return authdomain.User{}, fmt.Errorf("%w: username and a password of at least 6 characters are required", authdomain.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return authdomain.User{}, err
	}

	user := authdomain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return authdomain.User{}, fmt.Errorf("%w: %s", authdomain.ErrUserExists, username)
		}
		return authdomain.User{}, err
	}

	s.log.Info("user registered", zap.String("username", username))
	return user, nil
}

func (s *Service) Login(ctx context.Context, req authdomain.LoginRequest) (authdomain.LoginResponse, error) {
	username := strings.TrimSpace(strings.ToLower(req.Username))

	var user authdomain.User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authdomain.LoginResponse{}, authdomain.ErrInvalidCredentials
		}
		return authdomain.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return authdomain.LoginResponse{}, authdomain.ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return authdomain.LoginResponse{}, err
	}

	return authdomain.LoginResponse{Token: signed, User: user}, nil
}

func (s *Service) Me(ctx context.Context, userID snowflake.ID) (authdomain.User, error) {
	var user authdomain.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authdomain.User{}, authdomain.ErrUnauthorized
		}
		return authdomain.User{}, err
	}
	return user, nil
}

func (s *Service) VerifyToken(tokenString string) (snowflake.ID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, authdomain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, authdomain.ErrUnauthorized
	}

	id, err := snowflake.ParseString(claims.Subject)
	if err != nil {
		return 0, authdomain.ErrUnauthorized
	}
	return id, nil
}
