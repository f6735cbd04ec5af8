package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"battery-rental-backend/internal/auth"
	"battery-rental-backend/internal/model"
	"battery-rental-backend/internal/store"
)

type loginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the credentials and returns a signed token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and password are required"})
		return
	}

	u, err := h.store.GetUser(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		fail(c, err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := auth.Issue(h.authCfg.JWTSecret, u.ID, u.Role, h.authCfg.TokenTTL)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": u.ID, "name": u.Name, "role": u.Role},
	})
}

type createStaffRequest struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateStaff registers a staff login.
func (h *Handler) CreateStaff(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	u := &model.User{ID: req.ID, Name: req.Name, PasswordHash: hash, Role: model.RoleStaff}
	if err := h.store.CreateUser(c.Request.Context(), u); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "name": u.Name, "role": u.Role})
}

type staffResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListStaff returns all staff accounts.
func (h *Handler) ListStaff(c *gin.Context) {
	users, err := h.store.ListStaff(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]staffResponse, 0, len(users))
	for _, u := range users {
		out = append(out, staffResponse{ID: u.ID, Name: u.Name})
	}
	c.JSON(http.StatusOK, out)
}
