package dto

import "time"

type CreatePostRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

type UpdatePostRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

type AuthorResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PostResponse struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Published bool           `json:"published"`
	Author    AuthorResponse `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type PostListResponse struct {
	Data       []PostResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}
