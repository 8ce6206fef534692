package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/craftedmarket/api/docs"
	v1 "github.com/craftedmarket/api/internal/api/handler/v1"
	"github.com/craftedmarket/api/internal/api/middleware"
	"github.com/craftedmarket/api/internal/config"
	"github.com/craftedmarket/api/internal/notification"
	"github.com/craftedmarket/api/internal/repository"
	"github.com/craftedmarket/api/internal/repository/dao"
	"github.com/craftedmarket/api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	eventHandler := s.initEventHandler(db)
	registrationHandler := s.initRegistrationHandler(db)
	s.MountHandlers(authHandler, userHandler, eventHandler, registrationHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewEventHandler(svc, uSvc)

	return handler
}

func (s *Server) initRegistrationHandler(db *gorm.DB) *v1.RegistrationHandler {
	eventDAO := dao.NewEventDAO(db)
	eventRepo := repository.NewEventRepository(eventDAO)
	registrationDAO := dao.NewRegistrationDAO(db)
	repo := repository.NewRegistrationRepository(registrationDAO, eventDAO, eventRepo)
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewRegistrationService(repo, userRepo, notification.NewLogNotifier())
	uSvc := service.NewUserService(userRepo)
	handler := v1.NewRegistrationHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, eventHandler *v1.EventHandler, registrationHandler *v1.RegistrationHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	// Browsing published events needs no account.
	public := s.Router.Group(basePath)
	{
		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
	}

	users := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		users.GET("/users/:userID", userHandler.HandleGetUser)
	}

	events := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		events.POST("/events", eventHandler.HandleCreateEvent)

		events.POST("/events/:eventID/registrations", registrationHandler.HandleSubmitRegistration)
		events.DELETE("/events/:eventID/registrations", registrationHandler.HandleUnregister)
		events.GET("/events/:eventID/registrations", registrationHandler.HandleListEventRegistrations)
		events.POST("/events/:eventID/feedback", registrationHandler.HandleSubmitFeedback)

		events.GET("/registrations", registrationHandler.HandleListOwnRegistrations)
		events.POST("/registrations/:registrationID/approve", registrationHandler.HandleApproveRegistration)
		events.POST("/registrations/:registrationID/reject", registrationHandler.HandleRejectRegistration)
		events.POST("/registrations/:registrationID/waitlist", registrationHandler.HandleWaitlistRegistration)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Crafted Market API"
	docs.SwaggerInfo.Description = "Event registration and capacity lifecycle for the Crafted Market vendor platform."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
