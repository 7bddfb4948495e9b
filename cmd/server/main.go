package main

import (
	"log"
	"os"

	v1 "go_attendance/api/v1"
	"go_attendance/internal/auth"
	"go_attendance/internal/cache"
	"go_attendance/internal/config"
	"go_attendance/internal/db"
	"go_attendance/internal/ratelimit"
	"go_attendance/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Println("✓ Configuration loaded")

	// 2. Open the database and bring the schema up to date
	gdb, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
		os.Exit(1)
	}
	if cfg.Seed {
		if err := db.Seed(gdb); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
			os.Exit(1)
		}
	}
	log.Println("✓ Database ready")

	// 3. Connect Redis; a missing address disables rate limiting and
	// token revocation but the server still runs
	rdb, err := cache.Connect(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer cache.Close(rdb)
	}

	// 4. Token signing
	auth.InitJWT(cfg.JWT.Secret)

	deps := v1.Deps{
		DB:  gdb,
		Cfg: cfg,
		Limiter: ratelimit.NewLimiter(rdb, cfg.RateLimit.MaxAttempts,
			cfg.RateLimit.Window()),
		Denylist: auth.NewDenylist(rdb),
	}

	// 5. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// 6. Dashboard event stream
	if cfg.WSEnabled {
		pub := ws.NewPublisher(gdb)
		wsServer, err := ws.NewServer(pub)
		if err != nil {
			log.Fatalf("Failed to start event stream: %v", err)
			os.Exit(1)
		}
		defer wsServer.Close()

		handler := ws.AuthMiddleware(wsServer)
		r.GET("/socket.io/*any", gin.WrapH(handler))
		r.POST("/socket.io/*any", gin.WrapH(handler))
		deps.Events = pub
		log.Println("✓ Event stream enabled")
	}

	// Setup API v1 routes
	v1.SetupRouter(r, deps)

	log.Printf("✓ Server starting on %s", cfg.HTTPAddr)

	// Start server
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
