package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/watchara/installment-service/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a new staff account with hashed password
func (s *Service) Register(ctx context.Context, username, password string) (*models.Operator, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	op := &models.Operator{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateOperator(ctx, op); err != nil {
		return nil, err
	}

	s.log.Infof("Operator registered: %s", op.Username)
	return op, nil
}

// Login authenticates an operator and returns a JWT token. The token subject
// is the username, which becomes recorded_by on plans created with it.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	op, err := s.store.FindOperatorByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   op.Username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("Operator logged in: %s", op.Username)
	return tokenString, nil
}
