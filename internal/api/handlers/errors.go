package handlers

import (
	"context"
	"errors"
	"net/http"

	"mission-control/internal/api/models"
	"mission-control/internal/budget"
	"mission-control/internal/dashboard"
	"mission-control/internal/store"

	"github.com/gin-gonic/gin"
)

// DataStore is everything the handlers need from the database. A nil DataStore means
// no database is attached.
type DataStore interface {
	dashboard.Source
	UpdateMetrics(ctx context.Context, u store.MetricsUpdate) (store.Metrics, error)
	GetTeamMember(ctx context.Context, id int64) (store.TeamMember, error)
	CreateAlert(ctx context.Context, in store.NewAlert) (store.Alert, error)
	DeleteAlert(ctx context.Context, id int64) error
	SaveBudgetScenario(ctx context.Context, userID, scenarioType string, streams, calculations any) (store.BudgetScenario, error)
	ListBudgetScenarios(ctx context.Context, userID string) ([]store.BudgetScenario, error)
	Seed(ctx context.Context) (store.SeedResult, error)
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func invalidRequest(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
}

func notConnected(c *gin.Context) {
	abortWithError(c, http.StatusServiceUnavailable, "DATABASE_NOT_CONNECTED", dashboard.ErrNotConnected)
}

// storeError maps store and domain errors onto HTTP statuses; anything unrecognized is a 500.
func storeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, budget.ErrUnknownStream), errors.Is(err, budget.ErrOutOfRange):
		abortWithError(c, http.StatusBadRequest, "INVALID_STREAM", err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
