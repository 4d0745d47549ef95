package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Micolomike/Xchange/internal/services"
)

// UserHandler handles user management requests.
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest is the body of user creation and registration.
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required,username"`
	Password  string `json:"password" binding:"required,max=128"`
	Email     string `json:"email" binding:"omitempty,email,max=255"`
	FirstName string `json:"firstname" binding:"max=100"`
	LastName  string `json:"lastname" binding:"max=100"`
}

func (r CreateUserRequest) input() services.CreateUserInput {
	return services.CreateUserInput{
		Username:  r.Username,
		Password:  r.Password,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// UpdateUserRequest is a partial user update. Omitted fields are kept; an
// empty password leaves the current one in place.
type UpdateUserRequest struct {
	Username  *string `json:"username" binding:"omitempty,username"`
	Password  *string `json:"password" binding:"omitempty,max=128"`
	Email     *string `json:"email" binding:"omitempty,email,max=255"`
	FirstName *string `json:"firstname" binding:"omitempty,max=100"`
	LastName  *string `json:"lastname" binding:"omitempty,max=100"`
}

// CreateUser creates a user
// @Summary     Create a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body CreateUserRequest true "User"
// @Success     201 {object} IDResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Username taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.CreateUser(req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, IDResponse{ID: user.ID})
}

// ListUsers returns every user
// @Summary     List users
// @Tags        users
// @Produce     json
// @Success     200 {array}  models.User "Users"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns a single user
// @Summary     Get a user
// @Tags        users
// @Produce     json
// @Param       id path int true "User ID"
// @Success     200 {object} models.User "User"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update to a user
// @Summary     Update a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id      path int               true "User ID"
// @Param       request body UpdateUserRequest true "Fields to change"
// @Success     200 {object} SuccessResponse "User updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Username taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	_, err = h.userService.UpdateUser(id, services.UpdateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK)
}

// DeleteUser removes a user and their sessions
// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Param       id path int true "User ID"
// @Success     200 {object} SuccessResponse "User deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondWithError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK)
}
