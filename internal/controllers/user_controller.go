package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"track_swiftly/internal/middleware"
	"track_swiftly/internal/models"
	"track_swiftly/internal/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

type updateUserInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone" binding:"omitempty,mobile_in"`
}

// List handles GET /api/users?role=
func (uc *UserController) List(c *gin.Context) {
	users, err := uc.users.List(c.Request.Context(), middleware.ActorFrom(c), models.Role(c.Query("role")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (uc *UserController) Get(c *gin.Context) {
	user, err := uc.users.Get(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) Update(c *gin.Context) {
	var input updateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := uc.users.Update(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), services.ProfileUpdate{
		Name:  input.Name,
		Phone: input.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) Delete(c *gin.Context) {
	if err := uc.users.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
