package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/budgetsync/internal/i18n"
	"github.com/theirongolddev/budgetsync/internal/server/storage"
)

// RegisterBudgetRoutes registers the routes for budgets with the
// RouterGroup that is passed.
func (s *Server) RegisterBudgetRoutes(r *gin.RouterGroup) {
	r.POST("", s.CreateBudget)
	r.PUT("/:id", s.UpdateBudget)
	r.DELETE("/:id", s.DeleteBudget)
	r.GET("/user/:userId", s.GetBudgetsByUser)
	r.GET("/user/:userId/names-and-amounts", s.GetBudgetNamesAndAmounts)
}

func budgetExists(name string) httpError {
	return httpError{
		Error:  fmt.Sprintf("A budget with the name %q already exists", name),
		Code:   i18n.CodeBudgetExists,
		Params: map[string]string{"name": name},
	}
}

// CreateBudget stores a new budget and answers 201 with the record.
func (s *Server) CreateBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input: %s", err)
		return
	}
	if e := s.checkBudget(req); e != nil {
		abort(c, http.StatusBadRequest, *e)
		return
	}

	b := req.record()
	created, err := s.store.CreateBudget(c.Request.Context(), b)
	if errors.Is(err, storage.ErrDuplicate) {
		abort(c, http.StatusBadRequest, budgetExists(b.Description))
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetBudgetsByUser lists a user's budgets. Unknown users get an empty list.
func (s *Server) GetBudgetsByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	budgets, err := s.store.BudgetsByUser(c.Request.Context(), userID)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, budgets)
}

// UpdateBudget overwrites a budget's description and amount.
func (s *Server) UpdateBudget(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input: %s", err)
		return
	}
	if e := s.checkBudget(req); e != nil {
		abort(c, http.StatusBadRequest, *e)
		return
	}

	b := req.record()
	updated, err := s.store.UpdateBudget(c.Request.Context(), id, b)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		notFound(c, "Budget with ID %d not found", id)
		return
	case errors.Is(err, storage.ErrDuplicate):
		abort(c, http.StatusBadRequest, budgetExists(b.Description))
		return
	case err != nil:
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteBudget removes a budget. Its expenses are kept.
func (s *Server) DeleteBudget(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	err := s.store.DeleteBudget(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		notFound(c, "Invalid input: Budget with ID %d not found", id)
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.String(http.StatusOK, "Budget deleted successfully!")
}

// GetBudgetNamesAndAmounts answers [{name, amount}] for a user's budgets.
func (s *Server) GetBudgetNamesAndAmounts(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	totals, err := s.store.BudgetNamesAndAmounts(c.Request.Context(), userID)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
