// File: internal/dto/token_response.go
package dto

// swagger:model dto.TokenResponse
type TokenResponse struct {
	// 存取令牌
	AccessToken string `json:"access_token"`

	// 令牌類型，固定為 bearer
	TokenType string `json:"token_type" example:"bearer"`
}
