package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/repository"
	"go-stonestock-ws/pkg/validator"
)

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	RoleCode string `json:"role_code" validate:"required,oneof=ADMIN STAFF VIEWER"`
}

type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	RoleCode *string `json:"role_code" validate:"omitempty,oneof=ADMIN STAFF VIEWER"`
	IsActive *bool   `json:"is_active"`
}

// UserService is the admin-facing account management surface.
type UserService interface {
	List(actor model.Actor) ([]model.UserResponse, error)
	Get(actor model.Actor, id uuid.UUID) (*model.UserResponse, error)
	Create(actor model.Actor, req *CreateUserRequest) (*model.UserResponse, error)
	Update(actor model.Actor, id uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error)
	Delete(actor model.Actor, id uuid.UUID) error
	SetPrivileges(actor model.Actor, id uuid.UUID, codes []string) (*model.UserResponse, error)
	ListRoles(actor model.Actor) ([]model.Role, error)
	ListPrivileges(actor model.Actor) ([]model.Privilege, error)
}

type userService struct {
	userRepo      repository.UserRepository
	roleRepo      repository.RoleRepository
	privilegeRepo repository.PrivilegeRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, privilegeRepo repository.PrivilegeRepository) UserService {
	return &userService{userRepo: userRepo, roleRepo: roleRepo, privilegeRepo: privilegeRepo}
}

func (s *userService) List(actor model.Actor) ([]model.UserResponse, error) {
	if !actor.Can("user:view") {
		return nil, ErrPermissionDenied
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]model.UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	return out, nil
}

func (s *userService) Get(actor model.Actor, id uuid.UUID) (*model.UserResponse, error) {
	if !actor.Can("user:view") {
		return nil, ErrPermissionDenied
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Create(actor model.Actor, req *CreateUserRequest) (*model.UserResponse, error) {
	if !actor.Can("user:create") {
		return nil, ErrPermissionDenied
	}
	if err := validationError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, fmt.Errorf("username %q is taken", username)
	}

	role, err := s.roleRepo.FindByCode(req.RoleCode)
	if err != nil {
		return nil, fmt.Errorf("unknown role %q", req.RoleCode)
	}

	user := &model.User{
		Username:   username,
		RoleID:     &role.ID,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	user.CreatedBy = actor.Username
	user.UpdatedBy = actor.Username
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Update(actor model.Actor, id uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error) {
	if !actor.Can("user:update") {
		return nil, ErrPermissionDenied
	}
	if err := validationError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
		// A password change kills the current session.
		user.TokenVersion = uuid.New().String()
	}
	if req.RoleCode != nil {
		role, err := s.roleRepo.FindByCode(*req.RoleCode)
		if err != nil {
			return nil, fmt.Errorf("unknown role %q", *req.RoleCode)
		}
		user.RoleID = &role.ID
		user.Role = role
		if err := s.userRepo.ReplacePrivileges(user, role.Privileges); err != nil {
			return nil, err
		}
		user.Privileges = role.Privileges
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actor.Username

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Delete(actor model.Actor, id uuid.UUID) error {
	if !actor.Can("user:delete") {
		return ErrPermissionDenied
	}
	if actor.UserID == id {
		return fmt.Errorf("cannot delete your own account")
	}
	if _, err := s.userRepo.FindByID(id); err != nil {
		return err
	}
	return s.userRepo.SoftDelete(id, actor.Username)
}

func (s *userService) SetPrivileges(actor model.Actor, id uuid.UUID, codes []string) (*model.UserResponse, error) {
	if !actor.Can("user:update_privilege") {
		return nil, ErrPermissionDenied
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	privileges, err := s.privilegeRepo.FindByCodes(codes)
	if err != nil {
		return nil, err
	}
	if len(privileges) != len(codes) {
		return nil, fmt.Errorf("one or more privilege codes are unknown")
	}
	if err := s.userRepo.ReplacePrivileges(user, privileges); err != nil {
		return nil, err
	}
	user.Privileges = privileges
	// Force re-login so the new privilege set lands in the token.
	if err := s.userRepo.SetTokenVersion(id, uuid.New().String()); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) ListRoles(actor model.Actor) ([]model.Role, error) {
	if !actor.Can("user:view") {
		return nil, ErrPermissionDenied
	}
	return s.roleRepo.FindAll()
}

func (s *userService) ListPrivileges(actor model.Actor) ([]model.Privilege, error) {
	if !actor.Can("user:view") {
		return nil, ErrPermissionDenied
	}
	return s.privilegeRepo.FindAll()
}
