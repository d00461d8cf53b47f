// File: internal/handler/auth/login.go
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/service"
	"postboard/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByEmail   = store.GetUserByEmail
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
)

// LoginRequest 定義登入的請求格式 (form data)
// username 欄位承載 Email，沿用 OAuth2 password flow 的表單欄位名
// swagger:model LoginRequest
type LoginRequest struct {
	// 使用者 Email
	// required: true
	Username string `form:"username" validate:"required" example:"alice@example.com"`

	// 使用者密碼
	// required: true
	Password string `form:"password" validate:"required" example:"Secret123!"`
}

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Email 與 Password 進行驗證，回傳存取令牌
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       username formData string true "使用者 Email"
// @Param       password formData string true "使用者密碼"
// @Success     200      {object} dto.TokenResponse
// @Failure     400      {object} dto.HTTPError
// @Failure     403      {object} dto.HTTPError
// @Failure     500      {object} dto.HTTPError
// @Router      /login [post]
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req LoginRequest
		// 先 Bind
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid form data"})
		}
		// 再驗證結構化參數 (go-playground/validator)
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, dto.HTTPError{Message: err.Error()})
		}

		// 撈使用者資料，失敗一律回 Invalid Credentials 避免洩漏帳號存在與否
		user, err := getUserByEmail(c.Request().Context(), db, strings.ToLower(req.Username))
		if err != nil {
			return c.JSON(http.StatusForbidden, dto.HTTPError{Message: "Invalid Credentials"})
		}

		// 驗證密碼
		if err := authenticateUser(c.Request().Context(), *user, req.Password); err != nil {
			return c.JSON(http.StatusForbidden, dto.HTTPError{Message: "Invalid Credentials"})
		}

		// 發行存取令牌
		token, err := issueAccessToken(*user, service.AccessTokenTTL())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: fmt.Sprintf("failed to issue token: %v", err)})
		}

		return c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}
