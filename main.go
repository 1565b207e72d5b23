package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awesomestore/backend/config"
	"github.com/awesomestore/backend/handlers"
	"github.com/awesomestore/backend/middleware"
	"github.com/awesomestore/backend/service"
	"github.com/awesomestore/backend/shop"
	"github.com/awesomestore/backend/store"
	"github.com/awesomestore/backend/validation"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()

	var images *service.ImageStore
	if cfg.S3Bucket != "" {
		images, err = service.NewImageStore(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			log.Fatal("s3:", err)
		}
	} else {
		log.Println("warning: AWS_S3_BUCKET not set; image uploads will fail")
	}

	validate := validation.New()
	cart := &shop.Cart{Store: db}
	checkout := &shop.Checkout{Store: db, Validate: validate}
	search := &shop.Search{Store: db}

	authHandler := &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, Validate: validate}
	booksHandler := &handlers.BooksHandler{
		DB:       db,
		Images:   images,
		Validate: validate,
		MaxBytes: cfg.MaxUploadMB * 1024 * 1024,
	}
	cartHandler := &handlers.CartHandler{Cart: cart}
	checkoutHandler := &handlers.CheckoutHandler{DB: db, Cart: cart, Checkout: checkout}
	searchHandler := &handlers.SearchHandler{Shop: search}
	usersHandler := &handlers.UsersHandler{DB: db, Validate: validate}
	ordersHandler := &handlers.OrdersHandler{DB: db, Validate: validate}

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Storefront browsing and search are public
		r.Get("/books", booksHandler.List)
		r.Get("/books/{id}", booksHandler.Get)
		r.Get("/books/{id}/image", booksHandler.Image)
		r.Post("/search", searchHandler.Search)

		// Shopping requires a signed-in user
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Post("/cart", cartHandler.Add)
			r.Get("/cart", cartHandler.View)
			r.Delete("/cart/{id}", cartHandler.Remove)
			r.Get("/payment", checkoutHandler.PaymentPage)
			r.Post("/checkout", checkoutHandler.DoCheckout)
		})

		// Back office
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Use(middleware.AdminOnly())
			r.Post("/books", booksHandler.Create)
			r.Put("/books/{id}", booksHandler.Update)
			r.Delete("/books/{id}", booksHandler.Delete)
			r.Post("/users", usersHandler.Create)
			r.Get("/users", usersHandler.List)
			r.Get("/users/{id}", usersHandler.Get)
			r.Put("/users/{id}", usersHandler.Update)
			r.Delete("/users/{id}", usersHandler.Delete)
			r.Get("/orders", ordersHandler.List)
			r.Get("/orders/{id}", ordersHandler.Get)
			r.Post("/orders", ordersHandler.Create)
			r.Put("/orders/{id}", ordersHandler.Update)
			r.Delete("/orders/{id}", ordersHandler.Delete)
		})
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}
