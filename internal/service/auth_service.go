package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/repository"
	"go-stonestock-ws/internal/ws"
	"go-stonestock-ws/pkg/jwt"
)

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

// AuthService owns login, session validation and the first-run bootstrap that
// creates the initial administrator on an empty user table.
type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	Logout(userID uuid.UUID) error
	// ValidateSession re-checks the claims against the stored user: the account
	// must still be active and the token version must match, so a later login
	// kicks this session out.
	ValidateSession(claims *jwt.Claims) (*model.User, error)
	Heartbeat(userID uuid.UUID) error
	NeedsBootstrap() (bool, error)
	BootstrapAdmin(username, password string) (*LoginResponse, error)
	ResetPassword(username, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	wsHub    *ws.Hub
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, wsHub *ws.Hub) AuthService {
	return &authService{userRepo: userRepo, roleRepo: roleRepo, wsHub: wsHub}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, ErrInvalidCredential
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredential
	}

	// Single session: rotating the version invalidates any token issued
	// before this login.
	version := uuid.New().String()
	if err := s.userRepo.SetTokenVersion(user.ID, version); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateLastSeen(user.ID); err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.RoleCode(), user.GetPrivilegeCodes(), version)
	if err != nil {
		return nil, err
	}

	s.wsHub.PublishUserStatus(user.Username, "online")
	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) Logout(userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.SetTokenVersion(userID, uuid.New().String()); err != nil {
		return err
	}
	s.wsHub.PublishUserStatus(user.Username, "offline")
	return nil
}

func (s *authService) ValidateSession(claims *jwt.Claims) (*model.User, error) {
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, jwt.ErrInvalidToken
	}
	return user, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	return s.userRepo.UpdateLastSeen(userID)
}

func (s *authService) NeedsBootstrap() (bool, error) {
	count, err := s.userRepo.Count()
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// BootstrapAdmin creates the first user with the ADMIN role. It only works
// while the user table is empty; afterwards user management is privileged.
func (s *authService) BootstrapAdmin(username, password string) (*LoginResponse, error) {
	needed, err := s.NeedsBootstrap()
	if err != nil {
		return nil, err
	}
	if !needed {
		return nil, fmt.Errorf("initial administrator already exists")
	}

	username = strings.TrimSpace(username)
	if username == "" || len(password) < 6 {
		return nil, fmt.Errorf("username and a password of at least 6 characters are required")
	}

	role, err := s.roleRepo.FindByCode(model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("admin role is not seeded: %w", err)
	}

	user := &model.User{
		Username:   username,
		RoleID:     &role.ID,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	user.CreatedBy = username
	user.UpdatedBy = username
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.Login(username, password)
}

// ResetPassword is the maintenance path used by the reset-password CLI. It
// bypasses privilege checks and kills any live session for the account.
func (s *authService) ResetPassword(username, newPassword string) error {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("user %q not found", username)
		}
		return err
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	user.TokenVersion = uuid.New().String()
	return s.userRepo.Update(user)
}
