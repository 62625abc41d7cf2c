package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
)

type LocationRepository interface {
	FindAllActive() ([]model.Location, error)
	FindByID(id uuid.UUID) (*model.Location, error)
	FindByName(name string) (*model.Location, error)
	Create(location *model.Location) error
	Deactivate(id uuid.UUID, updatedBy string) error
}

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db}
}

func (r *locationRepo) FindAllActive() ([]model.Location, error) {
	var locations []model.Location
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepo) FindByID(id uuid.UUID) (*model.Location, error) {
	var location model.Location
	if err := r.db.First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepo) FindByName(name string) (*model.Location, error) {
	var location model.Location
	if err := r.db.Where("name = ?", name).First(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepo) Create(location *model.Location) error {
	return r.db.Create(location).Error
}

func (r *locationRepo) Deactivate(id uuid.UUID, updatedBy string) error {
	return r.db.Model(&model.Location{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": updatedBy,
		}).Error
}
