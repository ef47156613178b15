package handler

import (
	"net/http"
	"time"

	"github.com/chorebattle/backend/internal/middleware"
	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type HouseholdHandler struct {
	svc service.HouseholdService
}

func NewHouseholdHandler(svc service.HouseholdService) *HouseholdHandler {
	return &HouseholdHandler{svc: svc}
}

type CreateHouseholdRequest struct {
	Name string `json:"name"`
}

type JoinHouseholdRequest struct {
	InviteCode string `json:"inviteCode"`
}

type TransferOwnershipRequest struct {
	NewOwnerID string `json:"newOwnerId"`
}

type HouseholdResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	InviteCode string         `json:"inviteCode"`
	OwnerID    string         `json:"ownerId"`
	Members    []UserResponse `json:"members,omitempty"`
	CreatedAt  string         `json:"createdAt"`
	Token      string         `json:"token,omitempty"`
}

type MemberResponse struct {
	UserResponse
	Completions int64 `json:"completions"`
	IsOwner     bool  `json:"isOwner"`
}

func (h *HouseholdHandler) Create(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req CreateHouseholdRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	household, token, err := h.svc.Create(c.Request().Context(), ident.UserID, ident.Email, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	resp := toHouseholdResponse(household)
	resp.Token = token
	return c.JSON(http.StatusCreated, resp)
}

func (h *HouseholdHandler) Get(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	household, err := h.svc.Get(c.Request().Context(), ident.HouseholdID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toHouseholdResponse(household))
}

func (h *HouseholdHandler) Rename(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req CreateHouseholdRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	household, err := h.svc.Rename(c.Request().Context(), ident.UserID, c.Param("id"), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toHouseholdResponse(household))
}

func (h *HouseholdHandler) Delete(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	token, err := h.svc.Delete(c.Request().Context(), ident.UserID, ident.Email, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *HouseholdHandler) Join(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req JoinHouseholdRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	household, token, err := h.svc.Join(c.Request().Context(), ident.UserID, ident.Email, req.InviteCode)
	if err != nil {
		return respondError(c, err)
	}
	resp := toHouseholdResponse(household)
	resp.Token = token
	return c.JSON(http.StatusOK, resp)
}

func (h *HouseholdHandler) Leave(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	token, err := h.svc.Leave(c.Request().Context(), ident.UserID, ident.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *HouseholdHandler) RemoveMember(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	err := h.svc.RemoveMember(c.Request().Context(), ident.UserID, c.Param("id"), c.Param("memberId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HouseholdHandler) TransferOwnership(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	var req TransferOwnershipRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	err := h.svc.TransferOwnership(c.Request().Context(), ident.UserID, c.Param("id"), req.NewOwnerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HouseholdHandler) RegenerateInviteCode(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	code, err := h.svc.RegenerateInviteCode(c.Request().Context(), ident.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"inviteCode": code})
}

func (h *HouseholdHandler) Members(c echo.Context) error {
	ident := middleware.CurrentUser(c)
	members, err := h.svc.Members(c.Request().Context(), ident.HouseholdID)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, MemberResponse{
			UserResponse: toUserResponse(m.User),
			Completions:  m.Completions,
			IsOwner:      m.IsOwner,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"members": resp})
}

func toHouseholdResponse(h *model.Household) HouseholdResponse {
	resp := HouseholdResponse{
		ID:         h.ID,
		Name:       h.Name,
		InviteCode: h.InviteCode,
		OwnerID:    h.OwnerID,
		CreatedAt:  h.CreatedAt.Format(time.RFC3339),
	}
	for i := range h.Members {
		resp.Members = append(resp.Members, toUserResponse(&h.Members[i]))
	}
	return resp
}
