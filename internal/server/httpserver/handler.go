package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *HTTPServer) signup(c *gin.Context) {
	ctx := c.Request.Context()

	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"signup": "failed", "reason": err.Error()})
		return
	}

	if err := s.users.Signup(ctx, req.Email, req.Password); err != nil {
		s.logger.Warn(ctx, "Signup failed", "email", req.Email, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"signup": "failed", "reason": err.Error()})
		return
	}

	s.logger.Info(ctx, "Signed up", "email", req.Email)
	c.JSON(http.StatusCreated, gin.H{"signup": "success"})
}

func (s *HTTPServer) login(c *gin.Context) {
	ctx := c.Request.Context()

	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"login": "failed"})
		return
	}

	token, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"login": "failed"})
			return
		}
		s.logger.Error(ctx, "Login error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"login": "failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

func (s *HTTPServer) logout(c *gin.Context) {
	ctx := c.Request.Context()
	id := identityFrom(c)

	if err := s.users.Logout(ctx, id); err != nil {
		s.logger.Error(ctx, "Logout failed", "email", id.Email, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"logout": "failed", "reason": err.Error()})
		return
	}

	s.logger.Info(ctx, "Logged out", "email", id.Email)
	c.JSON(http.StatusOK, gin.H{"logout": "success"})
}

func (s *HTTPServer) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"email": identityFrom(c).Email})
}
