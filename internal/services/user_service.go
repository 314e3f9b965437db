package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mixing-service/internal/models"
	"mixing-service/internal/repository"
)

const tokenBytes = 32

// NewUser holds the fields of a user account to create.
type NewUser struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	IsStaff   bool
}

type UserService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserService(db *gorm.DB, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{db: db, logger: logger}
}

// CreateUser stores a user with an empty credit balance and returns the API
// token. Only the token hash is kept, so the token cannot be shown again.
func (s *UserService) CreateUser(ctx context.Context, in NewUser) (*models.User, string, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, "", invalid("Username is required")
	}
	token, err := generateToken()
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		Username:  username,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		IsStaff:   in.IsStaff,
		TokenHash: HashToken(token),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).CreateUser(user); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrUsernameTaken
			}
			return err
		}
		return repository.NewProfileRepository(tx).EnsureProfile(user.ID)
	})
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user created", zap.String("user_id", user.ID.String()), zap.Bool("staff", user.IsStaff))
	return user, token, nil
}

// Authenticate resolves an API token to its user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	user, err := repository.NewUserRepository(s.db.WithContext(ctx)).GetUserByTokenHash(HashToken(token))
	if repository.IsNotFound(err) {
		return nil, ErrUnauthenticated
	}
	return user, err
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := repository.NewUserRepository(s.db.WithContext(ctx)).GetUserByUsername(username)
	return user, notFound(err)
}

// HashToken returns the hex SHA-256 digest stored for an API token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "generate token")
	}
	return hex.EncodeToString(b), nil
}
