package repository

import (
	"github.com/SundayYogurt/blog_service/internal/domain"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *domain.Post) error
	Save(post *domain.Post) error
	FindByID(id uint) (*domain.Post, error)
	List(published *bool, limit, offset int) ([]domain.Post, int64, error)
	Delete(id uint) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withAuthor keeps the author visible even after the account was
// soft-deleted; posts hold a plain foreign key, not ownership.
func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

func (r *postRepository) Create(post *domain.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return err
	}
	return withAuthor(r.db).First(post, post.ID).Error
}

func (r *postRepository) Save(post *domain.Post) error {
	return r.db.Save(post).Error
}

func (r *postRepository) FindByID(id uint) (*domain.Post, error) {
	post := &domain.Post{}
	if err := withAuthor(r.db).First(post, id).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(published *bool, limit, offset int) ([]domain.Post, int64, error) {
	q := r.db.Model(&domain.Post{})
	if published != nil {
		q = q.Where("published = ?", *published)
	}
	// reusable for both the count and the page query
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []domain.Post
	err := withAuthor(q).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Post{}, id).Error
}
