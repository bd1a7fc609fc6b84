package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"easetest-backend/internal/config"
	"easetest-backend/internal/database"
	"easetest-backend/internal/handlers"
	"easetest-backend/internal/middleware"
	"easetest-backend/internal/services"
	"easetest-backend/internal/store"
	"easetest-backend/internal/ws"

	_ "easetest-backend/docs"
)

// @title           EaseTest API
// @version         1.0
// @description     Device-local assessment rooms: author, share a code, join, answer, submit
// @host            localhost:8080
// @BasePath        /
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	roomStore := store.NewGormStore(db)
	hub := ws.NewHub(logger)

	lifecycle := services.NewLifecycle(roomStore, logger)
	authoring := services.NewAuthoringService()
	runner := services.NewRunnerService(lifecycle, logger)
	live := services.NewLiveService(lifecycle, logger)

	roomHandler := handlers.NewRoomHandler(lifecycle, hub)
	draftHandler := handlers.NewDraftHandler(authoring, lifecycle)
	playHandler := handlers.NewPlayHandler(lifecycle, runner, hub)
	liveHandler := handlers.NewLiveHandler(live, lifecycle, hub, logger)

	r := gin.New()
	r.Use(middleware.Logger(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: false,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/rooms/:code", liveHandler.WatchRoom)

	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("", roomHandler.ListRooms)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.GET("/:id/participant", roomHandler.GetRoomParticipant)
			rooms.GET("/:id/answers", roomHandler.GetRoomAnswers)
		}

		drafts := api.Group("/drafts")
		{
			drafts.POST("", draftHandler.CreateDraft)
			drafts.GET("/:id", draftHandler.GetDraft)
			drafts.PUT("/:id", draftHandler.UpdateInfo)
			drafts.POST("/:id/publish", draftHandler.Publish)
			drafts.POST("/:id/questions", draftHandler.AddQuestion)
			drafts.PUT("/:id/questions/:index", draftHandler.UpdateQuestion)
			drafts.DELETE("/:id/questions/:index", draftHandler.RemoveQuestion)
			drafts.PUT("/:id/questions/:index/kind", draftHandler.SetKind)
			drafts.POST("/:id/questions/:index/options", draftHandler.AddOption)
			drafts.PUT("/:id/questions/:index/options/:option", draftHandler.UpdateOption)
			drafts.DELETE("/:id/questions/:index/options/:option", draftHandler.RemoveOption)
			drafts.PUT("/:id/questions/:index/correct", draftHandler.ToggleCorrect)
		}

		play := api.Group("/play")
		{
			play.POST("/join", playHandler.Join)
			play.POST("/attempts/:id/start", playHandler.Start)
			play.GET("/attempts/:id", playHandler.State)
			play.POST("/attempts/:id/navigate", playHandler.Navigate)
			play.POST("/attempts/:id/answer", playHandler.Answer)
			play.POST("/attempts/:id/submit", playHandler.Submit)
			play.POST("/attempts/:id/run", playHandler.Run)
			play.POST("/attempts/:id/change", playHandler.Change)
			play.GET("/attempts/:id/score", playHandler.Score)
			play.DELETE("/attempts/:id", playHandler.Cancel)
		}

		api.POST("/live/rooms/:id/capture", liveHandler.RequestCapture)
	}

	logger.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
