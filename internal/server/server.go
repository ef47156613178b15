package server

import (
	"context"
	"net/http"

	"github.com/chorebattle/backend/internal/auth"
	"github.com/chorebattle/backend/internal/handler"
	appmw "github.com/chorebattle/backend/internal/middleware"
	"github.com/chorebattle/backend/internal/repository"
	"github.com/chorebattle/backend/internal/service"
	"github.com/chorebattle/backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(db *gorm.DB, tokens *auth.TokenManager, uploader *storage.PhotoUploader) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	userRepo := repository.NewUserRepository(db)
	householdRepo := repository.NewHouseholdRepository(db)
	rankRepo := repository.NewChoreRankRepository(db)
	freqRepo := repository.NewChoreFrequencyRepository(db)
	choreRepo := repository.NewChoreRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	pointRepo := repository.NewPointRepository(db)

	authSvc := service.NewAuthService(userRepo, tokens)
	householdSvc := service.NewHouseholdService(householdRepo, userRepo, choreRepo, pointRepo, tokens)
	rankSvc := service.NewChoreRankService(rankRepo)
	freqSvc := service.NewChoreFrequencyService(freqRepo)
	choreSvc := service.NewChoreService(choreRepo, rankRepo, freqRepo, userRepo)
	rewardSvc := service.NewRewardService(rewardRepo, userRepo)
	pointSvc := service.NewPointService(pointRepo, userRepo, choreRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	householdHandler := handler.NewHouseholdHandler(householdSvc)
	rankHandler := handler.NewChoreRankHandler(rankSvc)
	freqHandler := handler.NewChoreFrequencyHandler(freqSvc)
	choreHandler := handler.NewChoreHandler(choreSvc)
	rewardHandler := handler.NewRewardHandler(rewardSvc)
	pointHandler := handler.NewPointHandler(pointSvc)
	uploadHandler := handler.NewUploadHandler(uploader)

	authMw := appmw.NewAuthMiddleware(tokens)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	api := e.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("", authMw.RequireAuth)

	secured.POST("/households", householdHandler.Create)
	secured.GET("/households", householdHandler.Get)
	secured.GET("/households/members", householdHandler.Members)
	secured.POST("/households/join", householdHandler.Join)
	secured.POST("/households/leave", householdHandler.Leave)
	secured.POST("/households/invite-code", householdHandler.RegenerateInviteCode)
	secured.PATCH("/households/:id", householdHandler.Rename)
	secured.DELETE("/households/:id", householdHandler.Delete)
	secured.DELETE("/households/:id/members/:memberId", householdHandler.RemoveMember)
	secured.POST("/households/:id/transfer", householdHandler.TransferOwnership)

	secured.GET("/chore-ranks", rankHandler.List)
	secured.POST("/chore-ranks", rankHandler.Create)
	secured.PATCH("/chore-ranks/:id", rankHandler.Update)
	secured.DELETE("/chore-ranks/:id", rankHandler.Delete)

	secured.GET("/chore-frequencies", freqHandler.List)
	secured.POST("/chore-frequencies", freqHandler.Create)
	secured.PATCH("/chore-frequencies/:id", freqHandler.Update)
	secured.DELETE("/chore-frequencies/:id", freqHandler.Delete)

	secured.GET("/chores", choreHandler.List)
	secured.POST("/chores", choreHandler.Create)
	secured.GET("/chores/:id", choreHandler.Get)
	secured.PATCH("/chores/:id", choreHandler.Update)
	secured.DELETE("/chores/:id", choreHandler.Delete)
	secured.POST("/chores/:id/complete", choreHandler.Complete)

	secured.GET("/rewards", rewardHandler.List)
	secured.POST("/rewards", rewardHandler.Create)
	secured.GET("/rewards/claims", rewardHandler.MyClaims)
	secured.GET("/rewards/claims/household", rewardHandler.HouseholdClaims)
	secured.PATCH("/rewards/claims/:id", rewardHandler.ResolveClaim)
	secured.GET("/rewards/:id", rewardHandler.Get)
	secured.DELETE("/rewards/:id", rewardHandler.Delete)
	secured.POST("/rewards/:id/claim", rewardHandler.Claim)

	secured.GET("/points", pointHandler.History)
	secured.POST("/points", pointHandler.CreateManual)
	secured.GET("/points/household", pointHandler.HouseholdHistory)
	secured.GET("/points/chore/:choreId", pointHandler.ChoreHistory)
	secured.GET("/points/leaderboard", pointHandler.Leaderboard)
	secured.GET("/points/stats", pointHandler.Stats)

	secured.POST("/uploads/photo", uploadHandler.UploadPhoto)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
