package handler

import (
	"CloudStore/config"
	"CloudStore/internal/dto"
	"CloudStore/internal/service"
	"CloudStore/internal/session"
	"CloudStore/model"
	"CloudStore/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register creates a new user.
func Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := service.IsEmailExist(req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists"})
		return
	}
	if _, err := service.IsExist(req.Username); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
		return
	}

	user := model.User{
		UserName: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := service.CreateUser(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registration successful"})
}

// Login authenticates a user and establishes a session.
func Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	user, err := service.IsExist(req.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := service.CheckPassword(req.Username, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := session.Default.Create(c.Request.Context(), session.Identity{
		UserID:   user.ID,
		Username: user.UserName,
	}, session.TTL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.SetCookie(
		utils.SessionCookie,
		token,
		int(session.TTL().Seconds()),
		"/",
		"",
		config.AppConfig.CookieSecure,
		true,
	)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.UserName,
		},
	})
}

// Logout destroys the caller's session.
func Logout(c *gin.Context) {
	if token, err := c.Cookie(utils.SessionCookie); err == nil {
		_ = session.Default.Destroy(c.Request.Context(), token)
	}
	c.SetCookie(utils.SessionCookie, "", -1, "/", "", config.AppConfig.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the caller's resolved identity.
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":       c.MustGet("user_id").(uint64),
		"username": c.MustGet("username").(string),
	})
}
