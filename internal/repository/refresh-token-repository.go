package repository

import (
	"github.com/SundayYogurt/blog_service/internal/domain"
	"gorm.io/gorm"
)

type RefreshTokenRepository interface {
	Create(token *domain.RefreshToken) error
	FindByToken(token string) (*domain.RefreshToken, error)
	DeleteByToken(token string) (int64, error)
	DeleteAllForUser(userID uint) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(token *domain.RefreshToken) error {
	return r.db.Create(token).Error
}

// FindByToken preloads the owning user without the soft-delete filter so
// the caller can tell a deleted account apart from a missing token.
func (r *refreshTokenRepository) FindByToken(token string) (*domain.RefreshToken, error) {
	rt := &domain.RefreshToken{}
	err := r.db.
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(rt, "token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// DeleteByToken returns the number of rows removed. The delete is the
// single point of contention for rotation: of two requests racing on the
// same token, only the one that actually removed the row may proceed.
func (r *refreshTokenRepository) DeleteByToken(token string) (int64, error) {
	res := r.db.Where("token = ?", token).Delete(&domain.RefreshToken{})
	return res.RowsAffected, res.Error
}

func (r *refreshTokenRepository) DeleteAllForUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.RefreshToken{}).Error
}
