package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS (default: 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	expirationStr := os.Getenv("JWT_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = "24" // default
	}

	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
	}
	if expirationHours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", expirationHours)
	}

	return &JWTConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
	}, nil
}

// OperatorConfig holds the single shop-operator credential. The dashboard is
// a single-shop tool: one operator login, configured through the environment
// rather than a user table.
type OperatorConfig struct {
	Name         string
	PasswordHash string // bcrypt hash
	BcryptCost   int    // used only when hashing new passwords
}

// NewOperatorConfig creates the operator credential configuration from
// environment variables: OPERATOR_NAME, OPERATOR_PASSWORD_HASH (both
// required) and BCRYPT_COST (default: 12).
func NewOperatorConfig() (*OperatorConfig, error) {
	name := os.Getenv("OPERATOR_NAME")
	if name == "" {
		return nil, fmt.Errorf("OPERATOR_NAME is required but not set")
	}

	hash := os.Getenv("OPERATOR_PASSWORD_HASH")
	if hash == "" {
		return nil, fmt.Errorf("OPERATOR_PASSWORD_HASH is required but not set")
	}

	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12" // default
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}
	if cost < 10 || cost > 14 {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", cost)
	}

	return &OperatorConfig{
		Name:         name,
		PasswordHash: hash,
		BcryptCost:   cost,
	}, nil
}

// HashPassword hashes a password using bcrypt at the configured cost.
func (c *OperatorConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against the stored operator hash.
func (c *OperatorConfig) VerifyPassword(pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(pw)) == nil
}
