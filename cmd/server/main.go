package main

import (
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/distance"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/adapters/solver"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, OSRM, Redis) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	conn, repo, err := openRepository(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	provider, routeCache := buildProviders(cfg, conn)

	clusterer := services.NewClusterer(services.DefaultClustererConfig())
	sequencer := services.NewSequencer(provider, routeCache, services.DefaultSequencerConfig())
	optimizer := services.NewOptimizer(provider, solver.NewLvlathSolver())

	schedulerCfg := services.DefaultSchedulerConfig()
	schedulerCfg.DayStartHour = cfg.DayStartHour
	schedulerCfg.DayEndHour = cfg.DayEndHour
	scheduler := services.NewScheduler(schedulerCfg)

	assemblerCfg := services.DefaultAssemblerConfig()
	assemblerCfg.Budget = cfg.PlanBudget
	assembler := services.NewAssembler(clusterer, sequencer, services.NewAllocator(), optimizer, scheduler, assemblerCfg)

	router := api.NewRouter(repo, assembler, clusterer, sequencer)

	// Write timeout covers a full planning run against a cold cache.
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openRepository(cfg *config.Config) (*sql.DB, ports.POIRepository, error) {
	if cfg.DBDriver == "postgres" {
		conn, err := db.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return conn, repositories.NewPostgresPOIRepository(conn), nil
	}

	conn, err := db.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	// Initialize schema and seed demo data on startup for local runs.
	if err := repositories.InitSchema(conn); err != nil {
		return nil, nil, err
	}
	if cfg.SeedPath != "" {
		if err := repositories.SeedFromJSON(conn, cfg.SeedPath); err != nil {
			log.Printf("op=main.seed path=%s err=%v (continuing unseeded)", cfg.SeedPath, err)
		}
	}

	return conn, repositories.NewSqlitePOIRepository(conn), nil
}

// buildProviders assembles the distance provider chain: OSRM when
// configured, great-circle estimates as the safety net, Redis-backed
// matrix caching when available.
func buildProviders(cfg *config.Config, conn *sql.DB) (ports.DistanceProvider, ports.RouteCache) {
	estimator := distance.NewHaversineProvider()

	var provider ports.DistanceProvider = estimator
	if strings.TrimSpace(cfg.OSRMBaseURL) != "" {
		osrm, err := distance.NewOSRMProvider(cfg.OSRMBaseURL)
		if err != nil {
			log.Fatal(err)
		}
		provider = distance.NewFallbackProvider(osrm, estimator)
	} else {
		log.Println("OSRM_BASE_URL not set, using great-circle estimates")
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		matrixCache := cache.NewRedisMatrixCache(client, cfg.MatrixTTL)
		provider = distance.NewCachedProvider(provider, matrixCache)
	}

	// Single-leg lookups persist next to the POI data.
	var routeCache ports.RouteCache
	if cfg.DBDriver != "postgres" {
		routeCache = cache.NewSqliteRouteCache(conn)
	}

	return provider, routeCache
}
