package dto

import "github.com/pavelgrishin/worklink-backend/internal/models"

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

type BalanceResponse struct {
	Balance string `json:"balance"`
}

type BookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

type RatingResponse struct {
	Rating float64 `json:"rating"`
}
