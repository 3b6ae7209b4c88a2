package main

import (
	"context"
	"flag"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/medstaff/internal/app"
	"github.com/justsurfingit/medstaff/internal/config"
	"github.com/justsurfingit/medstaff/internal/handlers"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	// 1. Load configuration (.env, YAML, environment)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	// 2. Database, AI and notification services
	a := app.New(context.Background(), cfg)
	defer a.Close()

	// 3. Initialize Handlers
	h := handlers.Handlers{
		Facilities:   handlers.NewFacilityHandler(a.Facilities, a.Notes),
		Jobs:         handlers.NewJobHandler(a.Jobs),
		Applications: handlers.NewApplicationHandler(a.Applications),
		Resumes:      handlers.NewResumeHandler(a.Resumes),
		AI:           handlers.NewAIHandler(a.LLM),
		Admin:        handlers.NewAdminHandler(a.Dashboard, a.Enrichment, cfg.Enrichment.Cities),
	}

	// 4. Setup Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	// 5. Define Routes
	handlers.RegisterRoutes(r, a.DB, h)

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
