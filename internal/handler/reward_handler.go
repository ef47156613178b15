package handler

import (
	"net/http"
	"time"

	"github.com/chorebattle/backend/internal/middleware"
	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type RewardHandler struct {
	svc service.RewardService
}

func NewRewardHandler(svc service.RewardService) *RewardHandler {
	return &RewardHandler{svc: svc}
}

type CreateRewardRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PointsCost   int    `json:"pointsCost"`
	IsRepeatable *bool  `json:"isRepeatable"`
	MaxClaims    *int   `json:"maxClaims"`
}

type ClaimRewardRequest struct {
	Notes string `json:"notes"`
}

type ResolveClaimRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

type RewardResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	PointsCost   int    `json:"pointsCost"`
	IsRepeatable bool   `json:"isRepeatable"`
	MaxClaims    *int   `json:"maxClaims,omitempty"`
	IsDeleted    bool   `json:"isDeleted"`
	CreatedAt    string `json:"createdAt"`
}

type RewardSummaryResponse struct {
	RewardResponse
	TotalClaims int64          `json:"totalClaims"`
	IsClaimable bool           `json:"isClaimable"`
	LastClaim   *ClaimResponse `json:"lastClaim,omitempty"`
}

type RewardListResponse struct {
	Rewards []RewardSummaryResponse `json:"rewards"`
	Total   int64                   `json:"total"`
}

type ClaimResponse struct {
	ID          string          `json:"id"`
	Reward      *RewardResponse `json:"reward,omitempty"`
	User        *UserResponse   `json:"user,omitempty"`
	PointsCost  int             `json:"pointsCost"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	ClaimedAt   string          `json:"claimedAt"`
	CompletedAt *string         `json:"completedAt,omitempty"`
	CancelledAt *string         `json:"cancelledAt,omitempty"`
}

type ClaimRewardResponse struct {
	Claim           ClaimResponse `json:"claim"`
	RemainingPoints int           `json:"remainingPoints"`
}

type ClaimListResponse struct {
	Claims []ClaimResponse `json:"claims"`
	Total  int64           `json:"total"`
}

func (h *RewardHandler) List(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	offset, limit := pageParams(c)
	summaries, total, err := h.svc.List(c.Request().Context(), ident.UserID, ident.HouseholdID, offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	resp := RewardListResponse{
		Rewards: make([]RewardSummaryResponse, 0, len(summaries)),
		Total:   total,
	}
	for _, s := range summaries {
		item := RewardSummaryResponse{
			RewardResponse: toRewardResponse(s.Reward),
			TotalClaims:    s.TotalClaims,
			IsClaimable:    s.IsClaimable,
		}
		if s.LastClaim != nil {
			claim := toClaimResponse(s.LastClaim)
			item.LastClaim = &claim
		}
		resp.Rewards = append(resp.Rewards, item)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *RewardHandler) Create(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req CreateRewardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	repeatable := true
	if req.IsRepeatable != nil {
		repeatable = *req.IsRepeatable
	}
	reward, err := h.svc.Create(c.Request().Context(), ident.HouseholdID, service.RewardCreate{
		Title:        req.Title,
		Description:  req.Description,
		PointsCost:   req.PointsCost,
		IsRepeatable: repeatable,
		MaxClaims:    req.MaxClaims,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toRewardResponse(reward))
}

func (h *RewardHandler) Get(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	reward, err := h.svc.Get(c.Request().Context(), ident.HouseholdID, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toRewardResponse(reward))
}

func (h *RewardHandler) Delete(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	if err := h.svc.Delete(c.Request().Context(), ident.HouseholdID, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RewardHandler) Claim(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req ClaimRewardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	result, err := h.svc.Claim(c.Request().Context(), ident.UserID, ident.HouseholdID, c.Param("id"), req.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, ClaimRewardResponse{
		Claim:           toClaimResponse(result.Claim),
		RemainingPoints: result.RemainingPoints,
	})
}

func (h *RewardHandler) ResolveClaim(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req ResolveClaimRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	claim, err := h.svc.ResolveClaim(c.Request().Context(), ident.HouseholdID, c.Param("id"), model.ClaimStatus(req.Status), req.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toClaimResponse(claim))
}

func (h *RewardHandler) MyClaims(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	offset, limit := pageParams(c)
	page, err := h.svc.MyClaims(c.Request().Context(), ident.UserID, model.ClaimStatus(c.QueryParam("status")), offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toClaimListResponse(page))
}

func (h *RewardHandler) HouseholdClaims(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	offset, limit := pageParams(c)
	page, err := h.svc.HouseholdClaims(c.Request().Context(), ident.HouseholdID, model.ClaimStatus(c.QueryParam("status")), offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toClaimListResponse(page))
}

func toClaimListResponse(page *service.ClaimPage) ClaimListResponse {
	resp := ClaimListResponse{
		Claims: make([]ClaimResponse, 0, len(page.Claims)),
		Total:  page.Total,
	}
	for i := range page.Claims {
		resp.Claims = append(resp.Claims, toClaimResponse(&page.Claims[i]))
	}
	return resp
}

func toRewardResponse(r *model.Reward) RewardResponse {
	return RewardResponse{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		PointsCost:   r.PointsCost,
		IsRepeatable: r.IsRepeatable,
		MaxClaims:    r.MaxClaims,
		IsDeleted:    r.IsDeleted,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}

func toClaimResponse(claim *model.RewardClaim) ClaimResponse {
	resp := ClaimResponse{
		ID:         claim.ID,
		PointsCost: claim.PointsCost,
		Status:     string(claim.Status),
		Notes:      claim.Notes,
		ClaimedAt:  claim.ClaimedAt.Format(time.RFC3339),
	}
	if claim.Reward != nil {
		reward := toRewardResponse(claim.Reward)
		resp.Reward = &reward
	}
	if claim.User != nil {
		user := toUserResponse(claim.User)
		resp.User = &user
	}
	if claim.CompletedAt != nil {
		s := claim.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	if claim.CancelledAt != nil {
		s := claim.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &s
	}
	return resp
}
