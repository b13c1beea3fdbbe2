package repository

import (
	"github.com/SundayYogurt/blog_service/internal/domain"
	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Create(reset *domain.PasswordReset) error
	FindByToken(token string) (*domain.PasswordReset, error)
	Consume(reset *domain.PasswordReset, newPasswordHash string) error
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(reset *domain.PasswordReset) error {
	return r.db.Create(reset).Error
}

func (r *passwordResetRepository) FindByToken(token string) (*domain.PasswordReset, error) {
	reset := &domain.PasswordReset{}
	err := r.db.
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(reset, "token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return reset, nil
}

// Consume applies the whole password reset in one transaction: new
// password hash, reset marked used, every refresh token of the user
// dropped. Either all three land or none do; a concurrent refresh sees
// the pre-reset or the post-reset state, nothing in between.
func (r *passwordResetRepository) Consume(reset *domain.PasswordReset, newPasswordHash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.User{}).
			Where("id = ?", reset.UserID).
			Update("password_hash", newPasswordHash).Error
		if err != nil {
			return err
		}

		// conditional update keeps the token single-use under races:
		// the second consumer matches no row and the tx rolls back
		res := tx.Model(&domain.PasswordReset{}).
			Where("id = ? AND used = ?", reset.ID, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("user_id = ?", reset.UserID).
			Delete(&domain.RefreshToken{}).Error
	})
}
