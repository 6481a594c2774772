package service

import (
	"context"
	"errors"
	"time"

	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Session is the immutable per-request identity: the authenticated account
// plus its personnel record. Employee is nil for accounts without one (pure
// admin logins). Built once at the authentication boundary and passed
// explicitly; there is no ambient current-user state.
type Session struct {
	User     *model.User
	Employee *model.Employee
}

// Email returns the identity key used on time entries and journal entries.
func (s *Session) Email() string {
	if s.Employee != nil {
		return s.Employee.Email
	}
	return s.User.Email
}

func (s *Session) IsAdmin() bool {
	return s.User.Role == model.RoleAdmin
}

type AuthService struct {
	userRepo     repository.UserRepo
	employeeRepo repository.EmployeeRepo
}

func NewAuthService(userRepo repository.UserRepo, employeeRepo repository.EmployeeRepo) *AuthService {
	return &AuthService{userRepo: userRepo, employeeRepo: employeeRepo}
}

// Register creates a user account, and for employee accounts the linked
// personnel record.
func (s *AuthService) Register(ctx context.Context, username, email, password, role string) error {
	if role != model.RoleAdmin && role != model.RoleEmployee {
		role = model.RoleEmployee
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	id, _ := uuid.NewV7()
	user := &model.User{
		ID:       id.String(),
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	if role == model.RoleEmployee {
		empID, _ := uuid.NewV7()
		employee := &model.Employee{
			ID:     empID.String(),
			UserID: user.ID,
			Name:   username,
			Email:  email,
		}
		return s.employeeRepo.Create(ctx, employee)
	}
	return nil
}

// Login verifies credentials and returns a signed token plus the user id.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Deliberately vague so the endpoint leaks nothing about which
		// part failed.
		return "", "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", errors.New("invalid credentials")
	}

	return s.generateToken(user)
}

// CurrentSession loads the Session for an authenticated user id.
func (s *AuthService) CurrentSession(ctx context.Context, userID string) (*Session, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	employee, err := s.employeeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Employee: employee}, nil
}

func (s *AuthService) generateToken(user *model.User) (string, string, error) {
	secret := viper.GetString("jwt.secret")
	expireHours := viper.GetInt("jwt.expire_hours")

	claims := &model.AuthClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * time.Duration(expireHours))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(secret))
	return ss, user.ID, err
}
