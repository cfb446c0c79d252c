package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RegisterDataRoutes registers the chart aggregate routes with the
// RouterGroup that is passed.
func (s *Server) RegisterDataRoutes(r *gin.RouterGroup) {
	r.GET("/expenses-by-category", s.GetExpensesByCategory)
	r.GET("/totalexpenses-by-budget", s.GetTotalExpensesByBudget)
	r.GET("/user/:userId/budgets", s.GetBudgetNamesAndAmounts)
}

// GetExpensesByCategory answers {budget: total} for the userId query
// parameter, in budget order.
func (s *Server) GetExpensesByCategory(c *gin.Context) {
	raw := c.Query("userId")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID < 1 {
		badRequest(c, "Invalid input: %q is not a valid user ID", raw)
		return
	}
	totals, err := s.store.ExpensesByCategory(c.Request.Context(), userID)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// GetTotalExpensesByBudget answers {budget: total} across all users.
func (s *Server) GetTotalExpensesByBudget(c *gin.Context) {
	totals, err := s.store.TotalExpensesByBudget(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
