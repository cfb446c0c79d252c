package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/server/storage"
)

const (
	msgUserExists   = "A user with the provided email already exists."
	msgUserNotFound = "User not found. Proceed with creation."
	msgUserInput    = "Invalid input: a name and a valid email are required"
)

type userRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// RegisterUserRoutes registers the routes for users with the RouterGroup
// that is passed.
func (s *Server) RegisterUserRoutes(r *gin.RouterGroup) {
	r.POST("", s.CreateUser)
	r.GET("/find", s.FindUser)
}

// CreateUser registers a user and answers 201 with the record.
func (s *Server) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input: %s", err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		badRequest(c, msgUserInput)
		return
	}

	created, err := s.store.CreateUser(c.Request.Context(), model.User{Name: req.Name, Email: req.Email})
	if errors.Is(err, storage.ErrEmailTaken) {
		badRequest(c, msgUserExists)
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// FindUser looks a user up by name and email. A miss is still a 200, with a
// plain text body.
func (s *Server) FindUser(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	email := strings.TrimSpace(c.Query("email"))

	u, err := s.store.FindUser(c.Request.Context(), name, email)
	if errors.Is(err, storage.ErrNotFound) {
		c.String(http.StatusOK, msgUserNotFound)
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
