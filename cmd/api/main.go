package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hourlystay/internal/config"
	"hourlystay/internal/database"
	"hourlystay/internal/middleware"
	"hourlystay/internal/modules/admin"
	"hourlystay/internal/modules/catalog"
	"hourlystay/internal/modules/editor"
	"hourlystay/internal/modules/events"
	"hourlystay/internal/modules/owner"
	"hourlystay/internal/modules/photo"
	"hourlystay/internal/platform"
	jwtsvc "hourlystay/internal/pkg/jwt"
	"hourlystay/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := store.Migrate(db); err != nil {
		log.Fatal(err)
	}

	backend := platform.NewClient(cfg.PlatformBaseURL, cfg.GeocodeBaseURL, cfg.PlatformTimeout)
	drafts := store.NewDraftRepository(db)
	hub := events.NewHub()
	defer hub.Close()

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	photoService := photo.NewService(backend)
	editorService := editor.NewService(backend, photoService, drafts, hub)

	editorHandler := editor.NewHandler(editorService)
	catalogHandler := catalog.NewHandler(catalog.NewService(backend))
	ownerHandler := owner.NewHandler(owner.NewService(backend))
	adminHandler := admin.NewHandler(admin.NewService(backend, hub))
	eventsHandler := events.NewHandler(hub)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// публичный каталог
		catalogHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(j))
		{
			eventsHandler.RegisterRoutes(protected)

			ownerGroup := protected.Group("/")
			ownerGroup.Use(middleware.RequireRole("owner", "admin"))
			{
				editorHandler.RegisterRoutes(ownerGroup)
				ownerHandler.RegisterRoutes(ownerGroup)
			}

			adminGroup := protected.Group("/")
			adminGroup.Use(middleware.RequireRole("admin", "employee"))
			{
				adminHandler.RegisterRoutes(adminGroup)
			}
		}
	}

	log.Printf("level=info msg=\"listening\" addr=%s env=%s platform=%s", cfg.ListenAddr, cfg.AppEnv, cfg.PlatformBaseURL)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
