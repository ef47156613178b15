package handler

import (
	"net/http"

	"github.com/chorebattle/backend/internal/middleware"
	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ChoreFrequencyHandler struct {
	svc service.ChoreFrequencyService
}

func NewChoreFrequencyHandler(svc service.ChoreFrequencyService) *ChoreFrequencyHandler {
	return &ChoreFrequencyHandler{svc: svc}
}

type CreateFrequencyRequest struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	DaysInterval int    `json:"daysInterval"`
}

type UpdateFrequencyRequest struct {
	Name         *string `json:"name"`
	DisplayName  *string `json:"displayName"`
	DaysInterval *int    `json:"daysInterval"`
}

type FrequencyResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	DaysInterval int    `json:"daysInterval"`
	IsSystem     bool   `json:"isSystem"`
}

func (h *ChoreFrequencyHandler) List(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	freqs, err := h.svc.List(c.Request().Context(), ident.HouseholdID)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]FrequencyResponse, 0, len(freqs))
	for i := range freqs {
		resp = append(resp, toFrequencyResponse(&freqs[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"frequencies": resp})
}

func (h *ChoreFrequencyHandler) Create(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req CreateFrequencyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	freq, err := h.svc.Create(c.Request().Context(), ident.HouseholdID, req.Name, req.DisplayName, req.DaysInterval)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toFrequencyResponse(freq))
}

func (h *ChoreFrequencyHandler) Update(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req UpdateFrequencyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	freq, err := h.svc.Update(c.Request().Context(), ident.HouseholdID, c.Param("id"), service.FrequencyUpdate{
		Name:         req.Name,
		DisplayName:  req.DisplayName,
		DaysInterval: req.DaysInterval,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toFrequencyResponse(freq))
}

func (h *ChoreFrequencyHandler) Delete(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	if err := h.svc.Delete(c.Request().Context(), ident.HouseholdID, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toFrequencyResponse(f *model.ChoreFrequency) FrequencyResponse {
	return FrequencyResponse{
		ID:           f.ID,
		Name:         f.Name,
		DisplayName:  f.DisplayName,
		DaysInterval: f.DaysInterval,
		IsSystem:     f.IsSystem,
	}
}
