package handler

import (
	"net/http"
	"time"

	"github.com/chorebattle/backend/internal/middleware"
	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type PointHandler struct {
	svc service.PointService
}

func NewPointHandler(svc service.PointService) *PointHandler {
	return &PointHandler{svc: svc}
}

type CreateManualPointRequest struct {
	UserID string `json:"userId"`
	Points int    `json:"points"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type PointHistoryResponse struct {
	ID        string         `json:"id"`
	Points    int            `json:"points"`
	Type      string         `json:"type"`
	Reason    string         `json:"reason"`
	UserID    string         `json:"userId"`
	Chore     *ChoreResponse `json:"chore,omitempty"`
	Claim     *ClaimResponse `json:"claim,omitempty"`
	CreatedAt string         `json:"createdAt"`
}

type PointHistoryListResponse struct {
	Entries []PointHistoryResponse `json:"entries"`
	Total   int64                  `json:"total"`
}

type LeaderboardEntryResponse struct {
	User             UserResponse `json:"user"`
	Points           int64        `json:"points"`
	TotalCompletions int64        `json:"totalCompletions"`
}

type UserStatsResponse struct {
	TotalPoints      int                   `json:"totalPoints"`
	TotalCompletions int64                 `json:"totalCompletions"`
	PointsByType     map[string]int64      `json:"pointsByType"`
	ActiveStreaks    []ActiveStreakSummary `json:"activeStreaks"`
}

type ActiveStreakSummary struct {
	ChoreID string `json:"choreId"`
	Title   string `json:"title"`
	Streak  int    `json:"streak"`
}

func (h *PointHandler) History(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	offset, limit := pageParams(c)
	page, err := h.svc.History(c.Request().Context(), ident.UserID, offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toHistoryListResponse(page))
}

func (h *PointHandler) HouseholdHistory(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	offset, limit := pageParams(c)
	page, err := h.svc.HouseholdHistory(c.Request().Context(), ident.HouseholdID, offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toHistoryListResponse(page))
}

func (h *PointHandler) ChoreHistory(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	offset, limit := pageParams(c)
	page, err := h.svc.ChoreHistory(c.Request().Context(), ident.HouseholdID, c.Param("choreId"), offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toHistoryListResponse(page))
}

func (h *PointHandler) CreateManual(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req CreateManualPointRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	entry, err := h.svc.CreateManual(c.Request().Context(), ident.HouseholdID, service.ManualPointCreate{
		UserID: req.UserID,
		Points: req.Points,
		Type:   model.PointType(req.Type),
		Reason: req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toPointHistoryResponse(entry))
}

func (h *PointHandler) Leaderboard(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	entries, err := h.svc.Leaderboard(c.Request().Context(), ident.HouseholdID, c.QueryParam("period"))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]LeaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, LeaderboardEntryResponse{
			User:             toUserResponse(e.User),
			Points:           e.Points,
			TotalCompletions: e.TotalCompletions,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"leaderboard": resp})
}

func (h *PointHandler) Stats(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	stats, err := h.svc.Stats(c.Request().Context(), ident.HouseholdID, ident.UserID)
	if err != nil {
		return respondError(c, err)
	}
	resp := UserStatsResponse{
		TotalPoints:      stats.TotalPoints,
		TotalCompletions: stats.TotalCompletions,
		PointsByType:     make(map[string]int64, len(stats.PointsByType)),
		ActiveStreaks:    make([]ActiveStreakSummary, 0, len(stats.ActiveStreaks)),
	}
	for _, row := range stats.PointsByType {
		resp.PointsByType[string(row.Type)] = row.Points
	}
	for i := range stats.ActiveStreaks {
		resp.ActiveStreaks = append(resp.ActiveStreaks, ActiveStreakSummary{
			ChoreID: stats.ActiveStreaks[i].ID,
			Title:   stats.ActiveStreaks[i].Title,
			Streak:  stats.ActiveStreaks[i].CurrentStreak,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func toHistoryListResponse(page *service.HistoryPage) PointHistoryListResponse {
	resp := PointHistoryListResponse{
		Entries: make([]PointHistoryResponse, 0, len(page.Entries)),
		Total:   page.Total,
	}
	for i := range page.Entries {
		resp.Entries = append(resp.Entries, toPointHistoryResponse(&page.Entries[i]))
	}
	return resp
}

func toPointHistoryResponse(entry *model.PointHistory) PointHistoryResponse {
	resp := PointHistoryResponse{
		ID:        entry.ID,
		Points:    entry.Points,
		Type:      string(entry.Type),
		Reason:    entry.Reason,
		UserID:    entry.UserID,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.Chore != nil {
		chore := toChoreResponse(entry.Chore)
		resp.Chore = &chore
	}
	if entry.RewardClaim != nil {
		claim := toClaimResponse(entry.RewardClaim)
		resp.Claim = &claim
	}
	return resp
}
