// File: internal/handler/users/create_user.go
package users

import (
	"net/http"
	"strings"

	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/model"
	"postboard/internal/service"
	"postboard/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword = service.HashPassword
	createUser   = store.CreateUser
	getUserByID  = store.GetUserByID
)

// CreateUserRequest 定義註冊新使用者的請求格式
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	// 使用者 Email (會自動轉為小寫)
	// required: true
	Email string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`

	// 使用者密碼
	// required: true
	Password string `json:"password" form:"password" validate:"required" example:"Secret123!"`
}

// CreateUserHandler 註冊新使用者
// @Summary     Register a new user
// @Description 接收 Email 與密碼並建立新帳號，密碼以 bcrypt 儲存
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       user body CreateUserRequest true "使用者資料"
// @Success     201  {object} dto.UserResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     422  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Router      /users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req CreateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		// 統一用 validator 驗證所有欄位
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, dto.HTTPError{Message: err.Error()})
		}

		// Email 轉為小寫以確保一致性
		req.Email = strings.ToLower(req.Email)

		// 密碼哈希
		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to hash password"})
		}

		user := &model.User{
			Email:        req.Email,
			PasswordHash: hash,
		}

		// Email 重複等約束違反由資料庫回報，一律以 500 呈現
		created, err := createUser(c.Request().Context(), db, user)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		return c.JSON(http.StatusCreated, dto.NewUserResponse(created))
	}
}
