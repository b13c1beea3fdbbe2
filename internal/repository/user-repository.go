package repository

import (
	"errors"

	"github.com/SundayYogurt/blog_service/internal/domain"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *domain.User) error
	Save(user *domain.User) error
	FindByEmail(email string) (*domain.User, error)
	FindByID(id uint) (*domain.User, error)
	FindByVerificationToken(token string) (*domain.User, error)
	List(limit, offset int) ([]domain.User, int64, error)
	Delete(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	return r.db.Create(user).Error
}

func (r *userRepository) Save(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	return r.db.Save(user).Error
}

// FindByEmail only sees active users; soft-deleted rows are excluded by
// the gorm deleted_at clause.
func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindByID(id uint) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, id).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindByVerificationToken(token string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, "verification_token = ?", token).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) List(limit, offset int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Delete is a soft delete. The row keeps its id so posts retain their
// author reference.
func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&domain.User{}, id).Error
}
