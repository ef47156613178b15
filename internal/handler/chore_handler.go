package handler

import (
	"net/http"
	"time"

	"github.com/chorebattle/backend/internal/middleware"
	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ChoreHandler struct {
	svc service.ChoreService
}

func NewChoreHandler(svc service.ChoreService) *ChoreHandler {
	return &ChoreHandler{svc: svc}
}

type CreateChoreRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	RankID       string  `json:"rankId"`
	FrequencyID  string  `json:"frequencyId"`
	AssignedToID *string `json:"assignedToId"`
}

type UpdateChoreRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	RankID        *string `json:"rankId"`
	FrequencyID   *string `json:"frequencyId"`
	AssignedToID  *string `json:"assignedToId"`
	ClearAssignee bool    `json:"clearAssignee"`
}

type CompleteChoreRequest struct {
	Note     string `json:"note"`
	PhotoURL string `json:"photoUrl"`
}

type ChoreResponse struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Rank             *RankResponse      `json:"rank,omitempty"`
	Frequency        *FrequencyResponse `json:"frequency,omitempty"`
	AssignedTo       *UserResponse      `json:"assignedTo,omitempty"`
	IsComplete       bool               `json:"isComplete"`
	CurrentStreak    int                `json:"currentStreak"`
	LongestStreak    int                `json:"longestStreak"`
	TotalCompletions int                `json:"totalCompletions"`
	LastReset        string             `json:"lastReset"`
	NextReset        string             `json:"nextReset"`
	CreatedAt        string             `json:"createdAt"`
}

type CompletionResponse struct {
	ID           string        `json:"id"`
	ChoreID      string        `json:"choreId"`
	User         *UserResponse `json:"user,omitempty"`
	PointsEarned int           `json:"pointsEarned"`
	StreakCount  int           `json:"streakCount"`
	Note         string        `json:"note,omitempty"`
	PhotoURL     string        `json:"photoUrl,omitempty"`
	CompletedAt  string        `json:"completedAt"`
}

type ChoreDetailResponse struct {
	ChoreResponse
	RecentCompletions []CompletionResponse `json:"recentCompletions"`
}

type CompleteChoreResponse struct {
	Chore        ChoreResponse        `json:"chore"`
	Completion   CompletionResponse   `json:"completion"`
	History      PointHistoryResponse `json:"history"`
	PointsEarned int                  `json:"pointsEarned"`
}

func (h *ChoreHandler) List(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	chores, err := h.svc.List(c.Request().Context(), ident.HouseholdID)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]ChoreResponse, 0, len(chores))
	for i := range chores {
		resp = append(resp, toChoreResponse(&chores[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"chores": resp})
}

func (h *ChoreHandler) Get(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	detail, err := h.svc.Get(c.Request().Context(), ident.HouseholdID, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := ChoreDetailResponse{
		ChoreResponse:     toChoreResponse(detail.Chore),
		RecentCompletions: make([]CompletionResponse, 0, len(detail.RecentCompletions)),
	}
	for i := range detail.RecentCompletions {
		resp.RecentCompletions = append(resp.RecentCompletions, toCompletionResponse(&detail.RecentCompletions[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ChoreHandler) Create(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req CreateChoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	chore, err := h.svc.Create(c.Request().Context(), ident.UserID, ident.HouseholdID, service.ChoreCreate{
		Title:        req.Title,
		Description:  req.Description,
		RankID:       req.RankID,
		FrequencyID:  req.FrequencyID,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toChoreResponse(chore))
}

func (h *ChoreHandler) Update(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req UpdateChoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	chore, err := h.svc.Update(c.Request().Context(), ident.HouseholdID, c.Param("id"), service.ChoreUpdate{
		Title:         req.Title,
		Description:   req.Description,
		RankID:        req.RankID,
		FrequencyID:   req.FrequencyID,
		AssignedToID:  req.AssignedToID,
		ClearAssignee: req.ClearAssignee,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toChoreResponse(chore))
}

func (h *ChoreHandler) Delete(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	if err := h.svc.Delete(c.Request().Context(), ident.HouseholdID, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ChoreHandler) Complete(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req CompleteChoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	result, err := h.svc.Complete(c.Request().Context(), ident.UserID, ident.HouseholdID, c.Param("id"), req.Note, req.PhotoURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, CompleteChoreResponse{
		Chore:        toChoreResponse(result.Chore),
		Completion:   toCompletionResponse(result.Completion),
		History:      toPointHistoryResponse(result.History),
		PointsEarned: result.PointsEarned,
	})
}

func toChoreResponse(chore *model.Chore) ChoreResponse {
	resp := ChoreResponse{
		ID:               chore.ID,
		Title:            chore.Title,
		Description:      chore.Description,
		IsComplete:       chore.IsComplete,
		CurrentStreak:    chore.CurrentStreak,
		LongestStreak:    chore.LongestStreak,
		TotalCompletions: chore.TotalCompletions,
		LastReset:        chore.LastReset.Format(time.RFC3339),
		NextReset:        chore.NextReset.Format(time.RFC3339),
		CreatedAt:        chore.CreatedAt.Format(time.RFC3339),
	}
	if chore.Rank != nil {
		rank := toRankResponse(chore.Rank)
		resp.Rank = &rank
	}
	if chore.Frequency != nil {
		freq := toFrequencyResponse(chore.Frequency)
		resp.Frequency = &freq
	}
	if chore.AssignedTo != nil {
		user := toUserResponse(chore.AssignedTo)
		resp.AssignedTo = &user
	}
	return resp
}

func toCompletionResponse(completion *model.ChoreCompletion) CompletionResponse {
	resp := CompletionResponse{
		ID:           completion.ID,
		ChoreID:      completion.ChoreID,
		PointsEarned: completion.PointsEarned,
		StreakCount:  completion.StreakCount,
		Note:         completion.Note,
		PhotoURL:     completion.PhotoURL,
		CompletedAt:  completion.CompletedAt.Format(time.RFC3339),
	}
	if completion.User != nil {
		user := toUserResponse(completion.User)
		resp.User = &user
	}
	return resp
}
