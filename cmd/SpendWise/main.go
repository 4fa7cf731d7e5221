package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/spendwise/SpendWise/db"
	"github.com/spendwise/SpendWise/internal/auth"
	emailService "github.com/spendwise/SpendWise/internal/email"
	"github.com/spendwise/SpendWise/internal/exchange"
	"github.com/spendwise/SpendWise/internal/finance/application"
	"github.com/spendwise/SpendWise/internal/finance/infrastructure"
	"github.com/spendwise/SpendWise/internal/finance/interfaces"
	"github.com/spendwise/SpendWise/internal/media"
	"github.com/spendwise/SpendWise/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errs ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errs) > 0 && len(errs[0]) > 0 {
		payload["errors"] = errs[0]
	}
	respondJSON(w, status, payload)
}

type Server struct {
	router              *http.ServeMux
	authHandler         *auth.Handler
	userHandler         *user.Handler
	authService         auth.Service
	expenseHandler      *interfaces.ExpenseHandler
	subscriptionHandler *interfaces.SubscriptionHandler
	categoryHandler     *interfaces.CategoryHandler
	dashboardHandler    *interfaces.DashboardHandler
	mediaDir            string
}

func NewServer(
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	expenseHandler *interfaces.ExpenseHandler,
	subscriptionHandler *interfaces.SubscriptionHandler,
	categoryHandler *interfaces.CategoryHandler,
	dashboardHandler *interfaces.DashboardHandler,
	mediaDir string,
) *Server {
	return &Server{
		authHandler:         authHandler,
		userHandler:         userHandler,
		authService:         authService,
		expenseHandler:      expenseHandler,
		subscriptionHandler: subscriptionHandler,
		categoryHandler:     categoryHandler,
		dashboardHandler:    dashboardHandler,
		mediaDir:            mediaDir,
		router:              http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET Provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	protect := s.authService.JWTAccessTokenMiddleware()

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/email/verify", http.HandlerFunc(s.userHandler.HandleVerifyEmail))
	publicRoutes.Handle("POST /api/email/resend-code", http.HandlerFunc(s.userHandler.HandleResendVerificationCode))
	publicRoutes.Handle("POST /api/password/forgot", http.HandlerFunc(s.userHandler.HandleForgotPassword))
	publicRoutes.Handle("POST /api/password/reset", http.HandlerFunc(s.userHandler.HandleResetPassword))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()

	protectedRoutes.Handle("GET /api/protected/profile", protect(http.HandlerFunc(s.userHandler.HandleGetProfile)))
	protectedRoutes.Handle("PUT /api/protected/profile/display-name", protect(http.HandlerFunc(s.userHandler.HandleUpdateDisplayName)))
	protectedRoutes.Handle("POST /api/protected/profile/photo", protect(http.HandlerFunc(s.userHandler.HandleUploadPhoto)))
	protectedRoutes.Handle("POST /api/protected/change-password", protect(http.HandlerFunc(s.userHandler.HandleChangePassword)))
	protectedRoutes.Handle("DELETE /api/protected/account", protect(http.HandlerFunc(s.userHandler.HandleDeleteAccount)))

	// EXPENSES API
	protectedRoutes.Handle("POST /api/protected/expenses", protect(http.HandlerFunc(s.expenseHandler.CreateExpense)))
	protectedRoutes.Handle("GET /api/protected/expenses", protect(http.HandlerFunc(s.expenseHandler.GetUserExpenses)))
	protectedRoutes.Handle("PUT /api/protected/expenses/{id}", protect(http.HandlerFunc(s.expenseHandler.UpdateExpense)))
	protectedRoutes.Handle("DELETE /api/protected/expenses/{id}", protect(http.HandlerFunc(s.expenseHandler.DeleteExpense)))

	// SUBSCRIPTIONS API
	protectedRoutes.Handle("POST /api/protected/subscriptions", protect(http.HandlerFunc(s.subscriptionHandler.CreateSubscription)))
	protectedRoutes.Handle("GET /api/protected/subscriptions", protect(http.HandlerFunc(s.subscriptionHandler.GetUserSubscriptions)))
	protectedRoutes.Handle("PUT /api/protected/subscriptions/{id}", protect(http.HandlerFunc(s.subscriptionHandler.UpdateSubscription)))
	protectedRoutes.Handle("DELETE /api/protected/subscriptions/{id}", protect(http.HandlerFunc(s.subscriptionHandler.DeleteSubscription)))

	// PREFERENCES API
	protectedRoutes.Handle("GET /api/protected/preferences", protect(http.HandlerFunc(s.categoryHandler.GetPreferences)))
	protectedRoutes.Handle("PUT /api/protected/preferences/currency", protect(http.HandlerFunc(s.categoryHandler.UpdateCurrency)))
	protectedRoutes.Handle("POST /api/protected/categories", protect(http.HandlerFunc(s.categoryHandler.AddCategory)))
	protectedRoutes.Handle("DELETE /api/protected/categories/{id}", protect(http.HandlerFunc(s.categoryHandler.RemoveCategory)))

	// DASHBOARD API
	protectedRoutes.Handle("GET /api/protected/dashboard", protect(http.HandlerFunc(s.dashboardHandler.GetDashboard)))

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.HandleRefresh)))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("/media/", http.StripPrefix("/media/", http.FileServer(http.Dir(s.mediaDir))))
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "./media"
	}
	photoStore, err := media.NewPhotoStore(mediaDir, "/media")
	if err != nil {
		log.Fatalf("Could not initialize media store: %v", err)
	}

	jwtManager := auth.NewJWTManager()
	newEmailService := emailService.NewEmailService()

	expenseRepo := infrastructure.NewExpenseRepository(dbService.DB)
	subscriptionRepo := infrastructure.NewSubscriptionRepository(dbService.DB)
	preferencesRepo := infrastructure.NewPreferencesRepository(dbService.DB)

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo, newEmailService, photoStore, expenseRepo, subscriptionRepo)
	userHandler := user.NewHandler(userService, photoStore)
	authService := auth.NewAuthService(userService, jwtManager)
	authHandler := auth.NewHandler(authService)

	categoryService := application.NewCategoryService(preferencesRepo)
	expenseService := application.NewExpenseService(expenseRepo, categoryService)
	subscriptionService := application.NewSubscriptionService(subscriptionRepo, categoryService, userService, newEmailService)
	dashboardService := application.NewDashboardService(expenseRepo)

	rateCache := exchange.NewCache(exchange.NewClient(), exchange.DefaultTTL)

	expenseHandler := interfaces.NewExpenseHandler(expenseService, respondJSON, respondError)
	subscriptionHandler := interfaces.NewSubscriptionHandler(subscriptionService, respondJSON, respondError)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, respondJSON, respondError)
	dashboardHandler := interfaces.NewDashboardHandler(dashboardService, categoryService, rateCache, respondJSON, respondError)

	server := NewServer(authHandler, authService, userHandler, expenseHandler, subscriptionHandler, categoryHandler, dashboardHandler, mediaDir)
	server.RegisterRoutes()

	if err := StartPromotionScheduler(subscriptionService); err != nil {
		log.Fatalf("Scheduler didn't start, stoping the app ...")
	}

	loggingHandler := loggingMiddleware(http.HandlerFunc(server.router.ServeHTTP))
	log.Println("Starting perf on port 6060...")
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	log.Println("Server starting on port 8080...")
	if err := http.ListenAndServe(":8080", loggingHandler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// StartPromotionScheduler turns due subscriptions into expenses at local
// midnight every day.
func StartPromotionScheduler(subscriptionService *application.SubscriptionService) error {
	c := cron.New()
	_, err := c.AddFunc("0 0 * * *", func() {
		if err := subscriptionService.PromoteDue(); err != nil {
			log.Printf("Error promoting due subscriptions: %v", err)
		} else {
			log.Println("Due subscriptions promoted successfully.")
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
