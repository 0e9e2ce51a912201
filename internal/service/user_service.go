package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marine-backend/internal/middleware"
	"marine-backend/internal/model"
	"marine-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

// --- DTOs ---

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type CreateUserRequest struct {
	Username    string   `json:"username" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Password    string   `json:"password" binding:"required,min=3"`
	Role        string   `json:"role" binding:"required,oneof=Admin User"`
	Permissions []string `json:"permissions"`
}

type UpdateUserRequest struct {
	Name        *string   `json:"name"`
	Password    *string   `json:"password"`
	Role        *string   `json:"role"`
	Permissions *[]string `json:"permissions"`
}

type UserResponse struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// --- Interface ---

type UserService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
	GetUser(ctx context.Context, id string) (UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
}

type userService struct {
	userRepo  repository.UserRepository
	txManager repository.TransactionManager
}

func NewUserService(userRepo repository.UserRepository, txManager repository.TransactionManager) UserService {
	return &userService{userRepo: userRepo, txManager: txManager}
}

// --- Implementation ---

func (s *userService) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, errors.New("invalid username or password")
		}
		return LoginResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return LoginResponse{}, errors.New("invalid username or password")
	}

	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"name": user.Name,
		"exp":  time.Now().Add(tokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return LoginResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return LoginResponse{Token: signed, User: toUserResponse(*user)}, nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Username: req.Username,
		Name:     req.Name,
		Password: string(hash),
		Role:     req.Role,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, &user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if len(req.Permissions) > 0 {
			perms, permErr := s.userRepo.PermissionsByCodes(txCtx, req.Permissions)
			if permErr != nil {
				return fmt.Errorf("failed to resolve permissions: %w", permErr)
			}
			if len(perms) != len(req.Permissions) {
				return errors.New("unknown permission code in request")
			}
			if permErr := s.userRepo.ReplacePermissions(txCtx, &user, perms); permErr != nil {
				return fmt.Errorf("failed to assign permissions: %w", permErr)
			}
			user.Permissions = perms
		}
		return nil
	})
	if err != nil {
		return UserResponse{}, err
	}

	return toUserResponse(user), nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil && *req.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return UserResponse{}, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user.Password = string(hash)
	}
	if req.Role != nil {
		if *req.Role != model.RoleAdmin && *req.Role != model.RoleUser {
			return UserResponse{}, fmt.Errorf("invalid role %q", *req.Role)
		}
		user.Role = *req.Role
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if req.Permissions != nil {
			perms, permErr := s.userRepo.PermissionsByCodes(txCtx, *req.Permissions)
			if permErr != nil {
				return fmt.Errorf("failed to resolve permissions: %w", permErr)
			}
			if len(perms) != len(*req.Permissions) {
				return errors.New("unknown permission code in request")
			}
			if permErr := s.userRepo.ReplacePermissions(txCtx, user, perms); permErr != nil {
				return fmt.Errorf("failed to assign permissions: %w", permErr)
			}
			user.Permissions = perms
		}
		return nil
	})
	if err != nil {
		return UserResponse{}, err
	}

	// Capability changes take effect on the next request, not after TTL expiry
	middleware.ClearPermissionCache(user.ID.String())

	return toUserResponse(*user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	middleware.ClearPermissionCache(user.ID.String())
	return nil
}

func (s *userService) GetUser(ctx context.Context, id string) (UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(*user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	users, total, err := s.userRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	result := make([]UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, toUserResponse(u))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *userService) findUser(ctx context.Context, id string) (*model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

func toUserResponse(u model.User) UserResponse {
	codes := make([]string, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		codes = append(codes, p.Code)
	}
	return UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: codes,
	}
}
