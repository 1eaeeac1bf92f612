package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kjiyu/devlog/backend/internal/models"
	"github.com/kjiyu/devlog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles signin/signout and the current-user lookup
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository) *AuthHandler {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &AuthHandler{
		userRepository: userRepo,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication routes. CurrentUser is the
// only one behind the auth middleware; it is attached per-route by the
// router.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("", h.SignIn)
	g.POST("/logout", h.Logout)
	g.GET("/user", h.CurrentUser, authRequired)
}

// SignIn authenticates a user by login and password and issues a JWT
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.FindByLogin(c.Request().Context(), req.Login)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User does not exist")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Password does not match")
	}

	token, err := signToken(user, h.jwtSecret, 48*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.PublicProfile(),
	})
}

// Logout acknowledges the logout; token invalidation happens client side
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// CurrentUser returns the authenticated user's record, password stripped
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	claims := c.Get("user").(*models.JwtCustomClaims)

	user, err := h.userRepository.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User does not exist")
	}
	return c.JSON(http.StatusOK, user)
}

// signToken issues an HMAC-signed JWT carrying the user's id and login.
func signToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		Login:  user.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
