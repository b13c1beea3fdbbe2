package services

import (
	"errors"
	"log/slog"

	"github.com/SundayYogurt/blog_service/internal/apperr"
	"github.com/SundayYogurt/blog_service/internal/domain"
	"github.com/SundayYogurt/blog_service/internal/dto"
	"github.com/SundayYogurt/blog_service/internal/repository"
	"gorm.io/gorm"
)

type PostService interface {
	List(page, limit int, published *bool) (*dto.PostListResponse, error)
	GetByID(id uint) (*dto.PostResponse, error)
	Create(authorID uint, input dto.CreatePostRequest) (*dto.PostResponse, error)
	Update(id, userID uint, role string, input dto.UpdatePostRequest) (*dto.PostResponse, error)
	Delete(id, userID uint, role string) error
}

type postService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

func NewPostService(posts repository.PostRepository, logger *slog.Logger) PostService {
	return &postService{posts: posts, logger: logger}
}

func (s *postService) List(page, limit int, published *bool) (*dto.PostListResponse, error) {
	page, limit = normalizePage(page, limit)

	posts, total, err := s.posts.List(published, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}

	return &dto.PostListResponse{
		Data:       out,
		Pagination: buildPagination(page, limit, total),
	}, nil
}

func (s *postService) GetByID(id uint) (*dto.PostResponse, error) {
	post, err := s.posts.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, err
	}
	resp := toPostResponse(post)
	return &resp, nil
}

func (s *postService) Create(authorID uint, input dto.CreatePostRequest) (*dto.PostResponse, error) {
	post := &domain.Post{
		Title:     input.Title,
		Content:   input.Content,
		Published: input.Published,
		AuthorID:  authorID,
	}

	if err := s.posts.Create(post); err != nil {
		return nil, err
	}

	s.logger.Info("post created", slog.Uint64("post_id", uint64(post.ID)), slog.Uint64("user_id", uint64(authorID)))

	resp := toPostResponse(post)
	return &resp, nil
}

func (s *postService) Update(id, userID uint, role string, input dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.posts.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, err
	}

	if post.AuthorID != userID && role != domain.RoleAdmin {
		return nil, apperr.Forbidden("Not authorized to update this post")
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Published != nil {
		post.Published = *input.Published
	}

	if err := s.posts.Save(post); err != nil {
		return nil, err
	}

	s.logger.Info("post updated", slog.Uint64("post_id", uint64(post.ID)), slog.Uint64("user_id", uint64(userID)))

	resp := toPostResponse(post)
	return &resp, nil
}

func (s *postService) Delete(id, userID uint, role string) error {
	post, err := s.posts.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Post not found")
		}
		return err
	}

	if post.AuthorID != userID && role != domain.RoleAdmin {
		return apperr.Forbidden("Not authorized to delete this post")
	}

	if err := s.posts.Delete(id); err != nil {
		return err
	}

	s.logger.Info("post deleted", slog.Uint64("post_id", uint64(id)), slog.Uint64("user_id", uint64(userID)))
	return nil
}

func toPostResponse(post *domain.Post) dto.PostResponse {
	return dto.PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Published: post.Published,
		Author: dto.AuthorResponse{
			ID:    post.Author.ID,
			Name:  post.Author.Name,
			Email: post.Author.Email,
		},
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func buildPagination(page, limit int, total int64) dto.Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return dto.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
