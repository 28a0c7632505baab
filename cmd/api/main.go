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

	"github.com/chimustore/chimu-backend/internal/modules/address"
	"github.com/chimustore/chimu-backend/internal/modules/appstate"
	"github.com/chimustore/chimu-backend/internal/modules/auth"
	"github.com/chimustore/chimu-backend/internal/modules/catalog"
	"github.com/chimustore/chimu-backend/internal/modules/checkout"
	"github.com/chimustore/chimu-backend/internal/modules/order"
	"github.com/chimustore/chimu-backend/internal/modules/payment"
	"github.com/chimustore/chimu-backend/internal/modules/storage"
	"github.com/chimustore/chimu-backend/internal/modules/user"
	"github.com/chimustore/chimu-backend/internal/modules/wishlist"
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

	// ── Phase 1: Identity ───────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router)

	authService := auth.NewService(userService, userRepo)
	authHandler := auth.NewHandler(authService)
	authHandler.RegisterRoutes(router)

	// ── Phase 2: Catalog ────────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	// ── Phase 3: Session State ──────────────────────────────
	stores := appstate.NewManager()
	appstate.NewHandler(stores).RegisterRoutes(router)

	// ── Phase 4: Orders & Payments ──────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo)
	order.NewHandler(orderService).RegisterRoutes(router)

	paymentRepo := payment.NewPostgresRepository(db)
	paymentService := payment.NewService(paymentRepo, payment.NewSimulatedGateway())
	payment.NewHandler(paymentService).RegisterRoutes(router)

	// ── Phase 5: Checkout ───────────────────────────────────
	checkout.NewHandler(stores, paymentService, orderService).RegisterRoutes(router)

	// ── Phase 6: Account Features ───────────────────────────
	addressRepo := address.NewPostgresRepository(db)
	addressService := address.NewService(addressRepo)
	address.NewHandler(addressService).RegisterRoutes(router, authHandler.Middleware)

	wishlistRepo := wishlist.NewPostgresRepository(db)
	wishlistService := wishlist.NewService(wishlistRepo)
	wishlist.NewHandler(wishlistService).RegisterRoutes(router, authHandler.Middleware)

	// ── Phase 7: File Storage ───────────────────────────────
	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "./uploads"
	}
	fileStore, err := storage.NewLocalStore(storageDir, "/files/")
	if err != nil {
		log.Fatal(err)
	}
	storage.NewHandler(fileStore).RegisterRoutes(router, authHandler.Middleware)
	router.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(storageDir))))

	// ── Start Server ─────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Chimu API server starting on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
