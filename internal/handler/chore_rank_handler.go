package handler

import (
	"net/http"

	"github.com/chorebattle/backend/internal/middleware"
	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ChoreRankHandler struct {
	svc service.ChoreRankService
}

func NewChoreRankHandler(svc service.ChoreRankService) *ChoreRankHandler {
	return &ChoreRankHandler{svc: svc}
}

type CreateRankRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	PointValue  int    `json:"pointValue"`
}

type UpdateRankRequest struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"displayName"`
	PointValue  *int    `json:"pointValue"`
}

type RankResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	PointValue  int    `json:"pointValue"`
	IsSystem    bool   `json:"isSystem"`
}

func (h *ChoreRankHandler) List(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	ranks, err := h.svc.List(c.Request().Context(), ident.HouseholdID)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]RankResponse, 0, len(ranks))
	for i := range ranks {
		resp = append(resp, toRankResponse(&ranks[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ranks": resp})
}

func (h *ChoreRankHandler) Create(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req CreateRankRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	rank, err := h.svc.Create(c.Request().Context(), ident.HouseholdID, req.Name, req.DisplayName, req.PointValue)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toRankResponse(rank))
}

func (h *ChoreRankHandler) Update(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req UpdateRankRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	rank, err := h.svc.Update(c.Request().Context(), ident.HouseholdID, c.Param("id"), service.RankUpdate{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		PointValue:  req.PointValue,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toRankResponse(rank))
}

func (h *ChoreRankHandler) Delete(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	if err := h.svc.Delete(c.Request().Context(), ident.HouseholdID, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toRankResponse(r *model.ChoreRank) RankResponse {
	return RankResponse{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		PointValue:  r.PointValue,
		IsSystem:    r.IsSystem,
	}
}
