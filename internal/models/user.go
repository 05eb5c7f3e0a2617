package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRole defines the user roles
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// User represents an account. A user with no password is a pending
// registration: the email has been reserved via OTP but the profile
// has not been completed yet.
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Name     string    `json:"name"`
	Email    string    `json:"email" gorm:"uniqueIndex;not null"`
	Password string    `json:"-"` // bcrypt hash, empty while pending
	Role     UserRole  `json:"role" gorm:"default:'student'"`

	// Student profile, cleared for teachers
	Semester string `json:"semester,omitempty"`
	Year     string `json:"year,omitempty"`
	Branch   string `json:"branch,omitempty"`
	RollNo   string `json:"roll_no,omitempty"`

	// One-time code, set on issuance and cleared on consumption
	OTP       string     `json:"-"`
	OTPExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRegistered reports whether the user completed registration.
func (u *User) IsRegistered() bool {
	return u.Password != ""
}

// IsTeacher reports whether the user has the teacher role.
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// SetPassword hashes and stores the given password.
func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compares the given password against the stored hash.
func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(pwd))
}
