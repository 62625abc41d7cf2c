package repository

import (
	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
)

type RoleRepository interface {
	FindAll() ([]model.Role, error)
	FindByCode(code string) (*model.Role, error)
	// SeedDefaults creates the built-in roles and binds their privilege sets.
	// Existing roles get their privilege set refreshed so new privilege codes
	// propagate on upgrade.
	SeedDefaults() error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db}
}

func (r *roleRepo) FindAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Preload("Privileges").Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	var role model.Role
	err := r.db.Preload("Privileges").Where("code = ?", code).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) SeedDefaults() error {
	var all []model.Privilege
	if err := r.db.Find(&all).Error; err != nil {
		return err
	}

	for _, def := range model.DefaultRoles {
		var role model.Role
		err := r.db.Where("code = ?", def.Code).First(&role).Error
		if err == gorm.ErrRecordNotFound {
			role = model.Role{Code: def.Code, Name: def.Name, Description: def.Description}
			if err := r.db.Create(&role).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		granted := model.PrivilegesForRole(role.Code, all)
		if err := r.db.Model(&role).Association("Privileges").Replace(granted); err != nil {
			return err
		}
	}
	return nil
}
