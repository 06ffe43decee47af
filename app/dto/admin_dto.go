package dto

import "time"

// AdminLoginRequest authenticates a back-office admin
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// AdminRefreshTokenRequest exchanges a refresh token for a new token pair
type AdminRefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AdminDTO is the API view of a back-office admin
type AdminDTO struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// AdminLoginResponse carries the issued tokens after a successful login
type AdminLoginResponse struct {
	Message      string   `json:"message"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	Admin        AdminDTO `json:"admin"`
}

// AdminRefreshTokenResponse carries the renewed token pair
type AdminRefreshTokenResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
