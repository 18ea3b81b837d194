package httpapi

import (
	"context"
	"net/http"

	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/server/auth"
	"github.com/akoselev/eshop/internal/server/services"
	"github.com/gin-gonic/gin"
)

// SessionAuthorizer is the access gate used by the middleware.
type SessionAuthorizer interface {
	Authorize(ctx context.Context, accessToken string) (*auth.Claims, error)
}

// Sessions is the account surface the auth handler drives.
type Sessions interface {
	SessionAuthorizer
	Register(ctx context.Context, number, username, password string) (*services.UserSummary, *auth.TokenPair, error)
	Login(ctx context.Context, number, password string) (*services.UserSummary, *auth.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Profile(ctx context.Context, userID string) (*services.UserSummary, error)
	UpdateProfile(ctx context.Context, userID, number, username, password string) (*services.UserSummary, error)
	AddToBasket(ctx context.Context, userID, productID string) ([]string, error)
	RemoveFromBasket(ctx context.Context, userID, productID string) ([]string, error)
	AddToFavorites(ctx context.Context, userID, productID string) ([]string, error)
	RemoveFromFavorites(ctx context.Context, userID, productID string) ([]string, error)
}

type AuthHandler struct {
	sessions          Sessions
	refreshCookiePath string
	refreshTTLSeconds int
}

func NewAuthHandler(sessions Sessions, refreshTTLSeconds int) *AuthHandler {
	return &AuthHandler{
		sessions:          sessions,
		refreshCookiePath: "/api",
		refreshTTLSeconds: refreshTTLSeconds,
	}
}

type registerRequest struct {
	Number   string `json:"number" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Number   string `json:"number" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Number   string `json:"number"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string   `json:"id"`
	Number    string   `json:"number"`
	Username  string   `json:"username"`
	Basket    []string `json:"basket"`
	Favorites []string `json:"favorites"`
}

func toUserResponse(u *services.UserSummary) userResponse {
	return userResponse{
		ID:        u.ID,
		Number:    u.Number,
		Username:  u.Username,
		Basket:    u.Basket,
		Favorites: u.Favorites,
	}
}

// setRefreshCookie stores the refresh token in an HttpOnly cookie so browser
// scripts never see it.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(common.RefreshTokenCookieName, token, h.refreshTTLSeconds, h.refreshCookiePath, "", false, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(common.RefreshTokenCookieName, "", -1, h.refreshCookiePath, "", false, true)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number, password and a username of 3-32 characters are required"})
		return
	}

	user, pair, err := h.sessions.Register(c.Request.Context(), req.Number, req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusCreated, gin.H{
		"user":        toUserResponse(user),
		"accessToken": pair.AccessToken,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number and password are required"})
		return
	}

	user, pair, err := h.sessions.Login(c.Request.Context(), req.Number, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"user":        toUserResponse(user),
		"accessToken": pair.AccessToken,
	})
}

// Logout consumes the refresh cookie. A missing or stale cookie still logs
// out cleanly.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(common.RefreshTokenCookieName)
	if err == nil && token != "" {
		if err := h.sessions.Logout(c.Request.Context(), token); err != nil {
			abortWithError(c, err)
			return
		}
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(common.RefreshTokenCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearRefreshCookie(c)
		abortWithError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.sessions.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	user, err := h.sessions.UpdateProfile(c.Request.Context(), claims.UserID, req.Number, req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// refsHandler adapts the four basket/favorites mutations to one shape.
func (h *AuthHandler) refsHandler(op func(ctx context.Context, userID, productID string) ([]string, error), field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		productID := c.Param("productId")
		if productID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product id is required"})
			return
		}

		list, err := op(c.Request.Context(), claims.UserID, productID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{field: list})
	}
}

func (h *AuthHandler) AddToBasket(c *gin.Context) {
	h.refsHandler(h.sessions.AddToBasket, "basket")(c)
}

func (h *AuthHandler) RemoveFromBasket(c *gin.Context) {
	h.refsHandler(h.sessions.RemoveFromBasket, "basket")(c)
}

func (h *AuthHandler) AddToFavorites(c *gin.Context) {
	h.refsHandler(h.sessions.AddToFavorites, "favorites")(c)
}

func (h *AuthHandler) RemoveFromFavorites(c *gin.Context) {
	h.refsHandler(h.sessions.RemoveFromFavorites, "favorites")(c)
}
