package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/utils"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var validate = validator.New()

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type ProfileInput struct {
	Name      string
	AvatarURL string
}

// AuthResult is returned by Login: a bearer token plus who it belongs to.
type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register creates an account. The very first account becomes ADMIN so a
// fresh install always has someone who can run admin operations.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return nil, invalid("name is required")
	}
	if err := validate.Var(in.Email, "required,email"); err != nil {
		return nil, invalid("email %q is not valid", in.Email)
	}
	if len(in.Password) < minPasswordLen {
		return nil, invalid("password must be at least %d characters", minPasswordLen)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fromRepo("user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, fromRepo("user", err)
	}
	role := models.RoleUser
	if total == 0 {
		role = models.RoleAdmin
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fromRepo("user", err)
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fromRepo("user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	utils.InfoLogger.Printf("Login successful for user: %s", user.Email)
	return &AuthResult{Token: token, User: user.Summary()}, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	return user, fromRepo("user", err)
}

func (s *UserService) List(ctx context.Context, keyword string, req repository.PageRequest) (repository.Page[models.User], error) {
	page, err := s.users.List(ctx, strings.TrimSpace(keyword), req)
	return page, fromRepo("user", err)
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("user", err)
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	user.AvatarURL = strings.TrimSpace(in.AvatarURL)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fromRepo("user", err)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fromRepo("user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if len(next) < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hashed)
	return fromRepo("user", s.users.Update(ctx, user))
}

// Delete removes an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if actor.ID == id {
		return invalid("you cannot delete your own account")
	}
	return fromRepo("user", s.users.Delete(ctx, id))
}
