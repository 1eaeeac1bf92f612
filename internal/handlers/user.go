package handlers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kjiyu/devlog/backend/internal/models"
	"github.com/kjiyu/devlog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles user registration
type UserHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &UserHandler{
		userRepository: userRepo,
		jwtSecret:      jwtSecret,
	}
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
}

// Signup registers a new user and issues a JWT for the fresh session
func (h *UserHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// the login identifier is the unique key
	_, err := h.userRepository.FindByLogin(c.Request().Context(), req.Login)
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this login already registered")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return httpError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Login:        req.Login,
		Name:         req.Name,
		Nickname:     req.Nickname,
		Password:     string(hashedPassword),
		RegisterDate: time.Now(),
	}
	if err := h.userRepository.Create(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := signToken(user, h.jwtSecret, time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user.PublicProfile(),
	})
}
