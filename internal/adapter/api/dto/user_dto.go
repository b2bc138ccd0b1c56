package dto

import (
	"time"

	"github.com/dmtavares/pdv-varejo/internal/domain/user"
)

// UserRequest representa a requisição de usuário
type UserRequest struct {
	Name     string    `json:"name" binding:"required"`
	Email    string    `json:"email" binding:"required,email"`
	Password string    `json:"password" binding:"required,min=6"`
	Role     user.Role `json:"role" binding:"required"`
}

// UserResponse representa a resposta de usuário
type UserResponse struct {
	ID          string      `json:"id"`
	BranchID    string      `json:"branch_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        user.Role   `json:"role"`
	Status      user.Status `json:"status"`
	LastLoginAt time.Time   `json:"last_login_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

// UserListResponse representa a resposta de lista de usuários
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// ToUserResponse converte um usuário de domínio para DTO de resposta
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		BranchID:    u.BranchID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToUserListResponse converte uma lista de usuários para DTO de resposta
func ToUserListResponse(users []*user.User, page, pageSize int) UserListResponse {
	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserResponse(u))
	}

	return UserListResponse{
		Items: items,
		Page:  page,
		Size:  pageSize,
	}
}
