package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/models"
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/repository"
	"github.com/deepeshagarwal1116/smartstudent-backend/pkg/mailer"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// OTP purposes
const (
	OTPPurposeRegister       = "register"
	OTPPurposeForgotPassword = "forgot-password"
)

// AuthService manages accounts and the OTP lifecycle gating
// registration and password recovery
type AuthService struct {
	userRepo      repository.UserRepository
	mailer        mailer.Service
	jwtSecret     string
	jwtExpiration time.Duration
	otpTTL        time.Duration
	now           func() time.Time // mockable
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	mailSvc mailer.Service,
	jwtSecret string,
	jwtExpiration time.Duration,
	otpTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		mailer:        mailSvc,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		otpTTL:        otpTTL,
		now:           time.Now,
	}
}

// RegisterRequest carries the data needed to complete a registration
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	OTP      string
	Role     models.UserRole
	Semester string
	Year     string
	Branch   string
	RollNo   string
}

// AuthResult is returned on a successful login
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// SendOTP issues a one-time code for the given purpose and emails it.
// For registration the email is reserved with a pending user record;
// re-issuing overwrites the previous code. A mail delivery failure
// does not roll back the stored code.
func (s *AuthService) SendOTP(email, purpose string) error {
	email = cleanEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	switch purpose {
	case OTPPurposeRegister:
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			// Reserve the email with a pending record
			user = &models.User{ID: uuid.New(), Email: email}
			if err := s.userRepo.Create(user); err != nil {
				return fmt.Errorf("failed to create pending user: %w", err)
			}
		} else if user.IsRegistered() {
			return fmt.Errorf("%w: user already registered", ErrConflict)
		}
	case OTPPurposeForgotPassword:
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: user", ErrNotFound)
			}
			return err
		}
	default:
		return NewValidationError("invalid OTP purpose",
			FieldError{Field: "purpose", Error: "must be register or forgot-password"})
	}

	code := generateOTP()
	expiry := s.now().Add(s.otpTTL)
	user.OTP = code
	user.OTPExpiry = &expiry
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	subject := "Your OTP Code"
	body := fmt.Sprintf("Your OTP code is %s. It is valid for %d minutes.",
		code, int(s.otpTTL.Minutes()))
	if err := s.mailer.Send(email, subject, body); err != nil {
		// The stored code stays usable even when delivery fails
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

// VerifyOTP checks a code without consuming it, for optimistic UI
// confirmation before the actual registration or reset call.
func (s *AuthService) VerifyOTP(email, code string) error {
	user, err := s.userRepo.GetByEmail(cleanEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpired
		}
		return err
	}
	return s.checkOTP(user, code)
}

// Register completes a pending registration. The OTP is re-validated
// here and cleared only once the whole update succeeds.
func (s *AuthService) Register(req RegisterRequest) (*models.User, error) {
	req.Email = cleanEmail(req.Email)
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if req.Role == models.RoleStudent {
		if req.Semester == "" || req.Year == "" || req.Branch == "" || req.RollNo == "" {
			return nil, NewValidationError(
				"semester, year, branch and roll number are required for students")
		}
	}

	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: email not found, request an OTP first", ErrNotFound)
		}
		return nil, err
	}
	if user.IsRegistered() {
		return nil, fmt.Errorf("%w: user already registered", ErrConflict)
	}
	if err := s.checkOTP(user, req.OTP); err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Role = req.Role
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if user.Role == models.RoleStudent {
		user.Semester = req.Semester
		user.Year = req.Year
		user.Branch = req.Branch
		user.RollNo = strings.ToUpper(req.RollNo)
	} else {
		user.Semester = ""
		user.Year = ""
		user.Branch = ""
		user.RollNo = ""
	}

	// Consume the OTP together with the registration itself
	user.OTP = ""
	user.OTPExpiry = nil
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// ResetPassword sets a new password. The OTP is re-validated here and
// cleared only once the update succeeds.
func (s *AuthService) ResetPassword(email, code, newPassword string) error {
	user, err := s.userRepo.GetByEmail(cleanEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpired
		}
		return err
	}
	if err := s.checkOTP(user, code); err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	user.OTP = ""
	user.OTPExpiry = nil
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

// Login checks the credentials and, when role is given, asserts it;
// on success it returns the user with a signed token.
func (s *AuthService) Login(email, password string, role models.UserRole) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(cleanEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	if !user.IsRegistered() {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if role != "" && user.Role != role {
		return nil, fmt.Errorf("%w: you are not registered as a %s", ErrForbidden, role)
	}
	if err := user.CheckPassword(password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// ValidateToken validates a JWT and resolves the user it names
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return user, nil
}

// GetStudents returns all registered students
func (s *AuthService) GetStudents() ([]models.User, error) {
	return s.userRepo.ListStudents()
}

// FilterStudents returns students matching the given profile fields
func (s *AuthService) FilterStudents(semester, year, branch string) ([]models.User, error) {
	return s.userRepo.FilterStudents(semester, year, branch)
}

// checkOTP validates a stored code against the given one and the clock
func (s *AuthService) checkOTP(user *models.User, code string) error {
	if user.OTP == "" || user.OTPExpiry == nil {
		return ErrInvalidOrExpired
	}
	if user.OTP != code || s.now().After(*user.OTPExpiry) {
		return ErrInvalidOrExpired
	}
	return nil
}

// generateJWT signs a token for the user
func (s *AuthService) generateJWT(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    string(user.Role),
		"name":    user.Name,
		"exp":     now.Add(s.jwtExpiration).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// generateOTP produces a 6-digit numeric code
func generateOTP() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

// cleanEmail trims and case-folds an email address
func cleanEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
