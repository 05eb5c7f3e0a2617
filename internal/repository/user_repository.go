package repository

import (
	"errors"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested record does not exist
var ErrNotFound = errors.New("record not found")

// UserRepository defines the persistence operations on users
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	ListStudents() ([]models.User, error)
	FilterStudents(semester, year, branch string) ([]models.User, error)
}

// userRepository is the gorm-backed implementation
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create persists a new user
func (r *userRepository) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return r.db.Create(user).Error
}

// GetByID fetches a user by ID
func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

// GetByEmail fetches a user by its case-folded email
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

// Update saves the user
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// ListStudents returns all users with the student role
func (r *userRepository) ListStudents() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role = ?", models.RoleStudent).Find(&users).Error
	return users, err
}

// FilterStudents returns students matching the given profile fields;
// empty fields are not filtered on
func (r *userRepository) FilterStudents(semester, year, branch string) ([]models.User, error) {
	q := r.db.Where("role = ?", models.RoleStudent)
	if semester != "" {
		q = q.Where("semester = ?", semester)
	}
	if year != "" {
		q = q.Where("year = ?", year)
	}
	if branch != "" {
		q = q.Where("branch = ?", branch)
	}

	var users []models.User
	err := q.Find(&users).Error
	return users, err
}

// wrapNotFound translates gorm's record-not-found error
func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
