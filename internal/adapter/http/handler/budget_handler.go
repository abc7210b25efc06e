package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mvr/thenumber/internal/adapter/http/dto"
	"github.com/mvr/thenumber/internal/adapter/http/middleware"
	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/usecase"
)

// BudgetService defines the behavior needed by BudgetHandler.
type BudgetService interface {
	GetNumber(ctx context.Context, userID string) (*domain.BudgetResult, error)
}

// ConfigService defines the configuration behavior needed by BudgetHandler.
type ConfigService interface {
	Configure(ctx context.Context, input usecase.ConfigureInput) (*domain.BudgetConfig, error)
	GetConfig(ctx context.Context, userID string) (*domain.BudgetConfig, error)
}

// BudgetHandler handles budget-related HTTP requests.
type BudgetHandler struct {
	budgetUC BudgetService
	configUC ConfigService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetUC BudgetService, configUC ConfigService) *BudgetHandler {
	return &BudgetHandler{budgetUC: budgetUC, configUC: configUC}
}

// GetNumber returns today's spending number.
func (h *BudgetHandler) GetNumber(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user", "")
		return
	}

	result, err := h.budgetUC.GetNumber(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to calculate budget", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetNumberFromDomain(result))
}

// Configure replaces the budget configuration wholesale.
func (h *BudgetHandler) Configure(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user", "")
		return
	}

	var req dto.ConfigureBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	config, err := h.configUC.Configure(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to configure budget", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConfigFromDomain(config))
}

// GetConfig returns the current budget configuration.
func (h *BudgetHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user", "")
		return
	}

	config, err := h.configUC.GetConfig(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get configuration", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConfigFromDomain(config))
}
