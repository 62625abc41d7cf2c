package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
)

type UserRepository interface {
	Create(user *model.User) error
	Update(user *model.User) error
	FindAll() ([]model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Count() (int64, error)
	SoftDelete(id uuid.UUID, deletedBy string) error
	// SetTokenVersion rotates the single-session marker; every token carrying
	// the previous version stops validating.
	SetTokenVersion(id uuid.UUID, version string) error
	UpdateLastSeen(id uuid.UUID) error
	ReplacePrivileges(user *model.User, privileges []model.Privilege) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Preload("Role").Preload("Privileges").
		Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Role").Preload("Privileges").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Role").Preload("Privileges").
		Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *userRepo) SoftDelete(id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": deletedBy,
		}).Error
}

func (r *userRepo) SetTokenVersion(id uuid.UUID, version string) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", id).
		Update("token_version", version).Error
}

func (r *userRepo) UpdateLastSeen(id uuid.UUID) error {
	now := time.Now()
	return r.db.Model(&model.User{}).
		Where("id = ?", id).
		Update("last_seen_at", &now).Error
}

func (r *userRepo) ReplacePrivileges(user *model.User, privileges []model.Privilege) error {
	return r.db.Model(user).Association("Privileges").Replace(privileges)
}
