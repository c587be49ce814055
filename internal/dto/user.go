package dto

import "time"

type UserRequest struct {
	Login      string `json:"login"`
	Password   string `json:"pswd"`
	AdminToken string `json:"token"`
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"pswd"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created"`
}
