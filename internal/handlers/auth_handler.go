package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Micolomike/Xchange/internal/errors"
	"github.com/Micolomike/Xchange/internal/logger"
	"github.com/Micolomike/Xchange/internal/middleware"
	"github.com/Micolomike/Xchange/internal/services"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	userService    services.UserServicer
	sessionService services.SessionServicer
	sessionOptions middleware.SessionOptions
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, sessionService services.SessionServicer, opts middleware.SessionOptions) *AuthHandler {
	return &AuthHandler{userService: userService, sessionService: sessionService, sessionOptions: opts}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Success  bool   `json:"success"`
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Register creates a new account
// @Summary     Register a new user
// @Description Register a new user with username and password. Does not log in.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body CreateUserRequest true "User registration data"
// @Success     201 {object} IDResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Username taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
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

	logger.Get().Infow("user registered", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, IDResponse{ID: user.ID})
}

// Login authenticates a user and opens a session
// @Summary     Login user
// @Description Check the credentials, open a server-side session and set the session cookie
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} LoginResponse "Logged in"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.Authenticate(req.Username, req.Password)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrInvalidCredentials) {
			logger.Get().Warnw("failed login", "username", req.Username, "client_ip", c.ClientIP())
		}
		respondWithError(c, err)
		return
	}

	session, err := h.sessionService.CreateSession(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateSessionToken(h.sessionOptions, session)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	middleware.SetSessionCookie(c, h.sessionOptions, token)

	c.JSON(http.StatusOK, LoginResponse{Success: true, ID: user.ID, Username: user.Username})
}

// Logout ends the current session
// @Summary     Logout user
// @Description Delete the current session, if any, and expire the cookie
// @Tags        auth
// @Produce     json
// @Success     200 {object} SuccessResponse "Logged out"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, ok := middleware.SessionID(c); ok {
		if err := h.sessionService.DeleteSession(sessionID); err != nil {
			respondWithError(c, err)
			return
		}
	}

	middleware.ClearSessionCookie(c, h.sessionOptions)
	respondSuccess(c, http.StatusOK)
}

// Me returns the logged-in user
// @Summary     Current user
// @Tags        auth
// @Produce     json
// @Security    SessionCookie
// @Success     200 {object} models.User "User"
// @Failure     401 {object} ErrorResponse "Not logged in"
// @Router      /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrUserNotFound) {
			err = apperrors.ErrUnauthorized
		}
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
