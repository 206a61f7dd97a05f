package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/pkg/response"
	"github.com/linskybing/csdesk/pkg/utils"
)

type UserHandler struct {
	svc *application.AdminService
}

func NewUserHandler(svc *application.AdminService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ListUsers godoc
// @Summary List user profiles
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} user.User
// @Failure 403 {object} response.ErrorResponse "Permission denied"
// @Router /api/admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create a user
// @Description Registers a login identity and its profile. Admin only.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body user.CreateUserInput true "New user"
// @Success 201 {object} user.User
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 409 {object} response.ErrorResponse "A user with this email already exists. Please use a different email."
// @Router /api/admin/create-user [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input user.CreateUserInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: validationMessage(err)})
		return
	}
	actor, _ := utils.GetProfileFromContext(c)

	u, err := h.svc.CreateUser(actor, input, requestMeta(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// UpdateUser godoc
// @Summary Change a user's role or active flag
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Profile ID"
// @Param input body user.UpdateUserInput true "Changes"
// @Success 200 {object} user.User
// @Failure 403 {object} response.ErrorResponse "cannot change your own role or deactivate yourself"
// @Failure 404 {object} response.ErrorResponse "user not found"
// @Router /api/admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid user id"})
		return
	}
	var input user.UpdateUserInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: validationMessage(err)})
		return
	}
	actor, _ := utils.GetProfileFromContext(c)

	u, err := h.svc.UpdateUser(actor, id, input, requestMeta(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
