package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/budgetsync/internal/i18n"
	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/server/storage"
)

// RegisterExpenseRoutes registers the routes for expenses with the
// RouterGroup that is passed.
func (s *Server) RegisterExpenseRoutes(r *gin.RouterGroup) {
	r.POST("", s.CreateExpense)
	r.GET("/:id", s.GetExpense)
	r.PUT("/:id", s.UpdateExpense)
	r.DELETE("/:id", s.DeleteExpense)
	r.GET("/user/:userId", s.GetExpensesByUser)
}

func expenseExists(name string) httpError {
	return httpError{
		Error:  fmt.Sprintf("An expense with the name %q already exists", name),
		Code:   i18n.CodeExpenseExists,
		Params: map[string]string{"name": name},
	}
}

// checkBudgetRef answers 400 when e references a budget that does not exist.
func (s *Server) checkBudgetRef(c *gin.Context, e model.Expense) bool {
	id := e.BudgetID()
	if id == 0 {
		return true
	}
	_, err := s.store.Budget(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		badRequest(c, "Invalid input: Budget with ID %d not found", id)
		return false
	}
	if err != nil {
		s.internalError(c, err)
		return false
	}
	return true
}

// CreateExpense stores a new expense and answers 201 with the record.
func (s *Server) CreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input: %s", err)
		return
	}
	if e := s.checkExpense(req); e != nil {
		abort(c, http.StatusBadRequest, *e)
		return
	}
	if req.Date.IsZero() {
		badRequest(c, msgExpenseDate)
		return
	}

	e := req.record()
	if !s.checkBudgetRef(c, e) {
		return
	}
	created, err := s.store.CreateExpense(c.Request.Context(), e)
	if errors.Is(err, storage.ErrDuplicate) {
		abort(c, http.StatusBadRequest, expenseExists(e.Description))
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetExpense answers a single expense.
func (s *Server) GetExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	e, err := s.store.Expense(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		notFound(c, "An expense with ID = %d is not found", id)
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// GetExpensesByUser lists a user's expenses. Unknown users get an empty list.
func (s *Server) GetExpensesByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	expenses, err := s.store.ExpensesByUser(c.Request.Context(), userID)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// UpdateExpense overwrites an expense. Date and budget are kept when the
// request leaves them out.
func (s *Server) UpdateExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input: %s", err)
		return
	}
	if _, err := s.store.Expense(c.Request.Context(), id); errors.Is(err, storage.ErrNotFound) {
		notFound(c, "An expense with ID = %d is not found", id)
		return
	} else if err != nil {
		s.internalError(c, err)
		return
	}
	if e := s.checkExpense(req); e != nil {
		abort(c, http.StatusBadRequest, *e)
		return
	}

	e := req.record()
	if !s.checkBudgetRef(c, e) {
		return
	}
	updated, err := s.store.UpdateExpense(c.Request.Context(), id, e)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		notFound(c, "An expense with ID = %d is not found", id)
		return
	case errors.Is(err, storage.ErrDuplicate):
		abort(c, http.StatusBadRequest, expenseExists(e.Description))
		return
	case err != nil:
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteExpense removes an expense. Its budget is untouched.
func (s *Server) DeleteExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	err := s.store.DeleteExpense(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		notFound(c, "Expense with ID %d not found", id)
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.String(http.StatusOK, "Expense with ID %d deleted successfully", id)
}
