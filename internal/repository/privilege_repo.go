package repository

import (
	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
)

type PrivilegeRepository interface {
	FindAll() ([]model.Privilege, error)
	FindByCodes(codes []string) ([]model.Privilege, error)
	SeedDefaults() error
}

type privilegeRepo struct {
	db *gorm.DB
}

func NewPrivilegeRepo(db *gorm.DB) PrivilegeRepository {
	return &privilegeRepo{db}
}

func (r *privilegeRepo) FindAll() ([]model.Privilege, error) {
	var privileges []model.Privilege
	err := r.db.Order("code ASC").Find(&privileges).Error
	return privileges, err
}

func (r *privilegeRepo) FindByCodes(codes []string) ([]model.Privilege, error) {
	var privileges []model.Privilege
	err := r.db.Where("code IN ?", codes).Find(&privileges).Error
	return privileges, err
}

func (r *privilegeRepo) SeedDefaults() error {
	for _, p := range model.DefaultPrivileges {
		var existing model.Privilege
		err := r.db.Where("code = ?", p.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&model.Privilege{Code: p.Code, Name: p.Name}).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
