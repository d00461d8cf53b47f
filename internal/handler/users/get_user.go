// File: internal/handler/users/get_user.go
package users

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"postboard/internal/database"
	"postboard/internal/dto"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// GetUserHandler 取得指定使用者資料
// @Summary     Get a user by ID
// @Description 根據使用者 ID 查詢使用者公開資訊
// @Tags        users
// @Produce     json
// @Param       id path int true "使用者 ID"
// @Success     200 {object} dto.UserResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Router      /users/{id} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		idParam := c.Param("id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid user ID"})
		}

		user, err := getUserByID(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, dto.HTTPError{Message: fmt.Sprintf("user with id %d does not exist", id)})
			}
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: err.Error()})
		}

		return c.JSON(http.StatusOK, dto.NewUserResponse(user))
	}
}
