package routes

import (
	"log"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/delivery/http/handler"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/pkg/jwt"
	"skillswap/internal/repository"
	"skillswap/internal/usecase"
	ucauth "skillswap/internal/usecase/auth"
	"skillswap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, cfg config.Config, db database.DB, cache usecase.StatsCache, hub *ws.Hub, logger *log.Logger) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	userSkillRepo := repository.NewPostgresUserSkillRepository(db)
	connRepo := repository.NewPostgresConnectionRepository(db)

	authUC := usecase.NewAuthUsecase(ucauth.NewService(userRepo), jwtSvc)
	profileUC := usecase.NewProfileUsecase(userRepo, userSkillRepo, skillRepo, connRepo, cache)
	connectionUC := usecase.NewConnectionUsecase(userRepo, connRepo)
	skillUC := usecase.NewSkillUsecase(skillRepo)

	authHandler := handler.NewAuthHandler(authUC)
	profileHandler := handler.NewProfileHandler(profileUC)
	connectionHandler := handler.NewConnectionHandler(connectionUC)
	skillHandler := handler.NewSkillHandler(skillUC)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	profileHandler.RegisterPublicRoutes(r)

	protected := r.Group("", authMw.Middleware())
	authHandler.RegisterProtectedRoutes(protected.Group("/auth"))
	profileHandler.RegisterRoutes(protected)
	connectionHandler.RegisterRoutes(protected)
	skillHandler.RegisterRoutes(protected)

	if hub != nil {
		wsHandler := ws.NewHandler(hub, logger)
		protected.Get("/ws/events", wsHandler.HandleEventsWS)
	}
}
