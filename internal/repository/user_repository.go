package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixing-service/internal/models"
)

// UserRepository provides methods to interact with the User model in the database.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance with the provided GORM database connection.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a User.
func (r *UserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUser retrieves a User by its ID.
func (r *UserRepository) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	return &user, err
}

// GetUserByUsername retrieves a User by username.
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "username = ?", username).Error
	return &user, err
}

// GetUserByTokenHash retrieves the User owning an API token hash.
func (r *UserRepository) GetUserByTokenHash(hash string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "token_hash = ?", hash).Error
	return &user, err
}
