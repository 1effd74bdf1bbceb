package repository

import (
	"strings"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	ExistsByEmail(email string) (bool, error)
	UpdateDisplayName(id uint, displayName string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// 이메일은 소문자로 저장/조회
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) Create(user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to insert user", err, logger.Fields{
			"email": user.Email,
			"role":  user.Role,
		})
		return err
	}
	logger.Debug("User inserted", logger.Fields{"user_id": user.ID})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	user := new(model.User)
	if err := r.db.First(user, id).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	user := new(model.User)
	if err := r.db.Where("email = ?", normalizeEmail(email)).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ExistsByEmail 탈퇴(soft delete) 계정도 unique 인덱스를 점유하므로 함께 확인
func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.User{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdateDisplayName(id uint, displayName string) error {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("display_name", displayName)
	if result.Error != nil {
		logger.Error("Failed to update display name", result.Error, logger.Fields{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
