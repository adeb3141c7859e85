package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nattapongs/fuelpos-backend/internal/modules/auth"
	"github.com/nattapongs/fuelpos-backend/internal/modules/catalog"
	"github.com/nattapongs/fuelpos-backend/internal/modules/ledger"
	"github.com/nattapongs/fuelpos-backend/internal/modules/member"
	"github.com/nattapongs/fuelpos-backend/internal/modules/nozzle"
	"github.com/nattapongs/fuelpos-backend/internal/modules/promotion"
	"github.com/nattapongs/fuelpos-backend/internal/modules/session"
	"github.com/nattapongs/fuelpos-backend/internal/modules/user"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successfully connected to the database!")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	if os.Getenv("PROMETHEUS_ENABLED") == "true" {
		router.Handle("/metrics", promhttp.Handler())
	}

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router)

	authService := auth.NewService(userRepo)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Catalog & Promotions ────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	promoRepo := promotion.NewPostgresRepository(db)
	promoService := promotion.NewService(promoRepo)
	promotion.NewHandler(promoService).RegisterRoutes(router)

	// ── Sale core: directory, locks, workflow ───────────────
	memberRepo := member.NewPostgresRepository(db)
	recorder := ledger.NewPostgresRecorder(db)
	directory := session.NewPostgresRepository(db)

	nozzleRepo := nozzle.NewPostgresRepository(db)
	coordinator := nozzle.NewCoordinator(nozzleRepo, directory)
	nozzle.NewHandler(nozzleRepo, coordinator).RegisterRoutes(router)

	sessionEngine := session.NewEngine(directory, coordinator, catalogRepo, memberRepo, promoRepo, recorder)
	session.NewHandler(sessionEngine).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Fuel POS API server starting on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
