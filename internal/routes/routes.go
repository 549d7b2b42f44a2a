package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/internal/handlers"
	"github.com/AnshRaj112/mealmate-backend/internal/middleware"
)

// Options holds the optional edge middleware.
type Options struct {
	// AuthLimiter guards /auth/*. Nil disables it.
	AuthLimiter *middleware.RedisRateLimiter
	// Security is the production chain. Nil outside production.
	Security *middleware.ProductionSecurity
}

func NewRouter(h *handlers.Handler, logger *zap.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(h.Config.AllowedOrigins))
	if opts.Security != nil {
		for _, mw := range opts.Security.Middlewares() {
			r.Use(mw)
		}
	}

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	requireAuth := middleware.Auth(h.Tokens)
	optionalAuth := middleware.OptionalAuth(h.Tokens)

	r.Get("/health", handlers.Health)

	r.Route("/auth", func(r chi.Router) {
		if opts.AuthLimiter != nil {
			r.Use(opts.AuthLimiter.Middleware)
		}
		r.Post("/signin", h.SignIn)
		r.Post("/signup", h.SignUp)
		r.Post("/verify-email", h.VerifyEmail)
		r.Post("/resend-verification", h.ResendVerification)
		r.Post("/reset-password", h.RequestPasswordReset)
		r.Post("/reset-password/confirm", h.ConfirmPasswordReset)
		r.Get("/google", h.GoogleLogin)
		r.Get("/google/callback", h.GoogleCallback)
	})

	r.Route("/meals", func(r chi.Router) {
		r.With(optionalAuth).Get("/", h.ListMeals)
		r.Get("/{id}", h.GetMeal)
		r.With(requireAuth).Post("/", h.CreateMeal)
		r.With(requireAuth).Post("/upload-image", h.UploadMealImage)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", h.ListOrders)
		r.Get("/my-orders", h.ListMyOrders)
		r.Get("/{id}", h.GetOrder)
		r.Post("/", h.CreateOrder)
	})

	r.Route("/purchases", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", h.ListPurchases)
		r.Get("/{id}", h.GetPurchase)
		r.Post("/", h.CreatePurchase)
	})

	r.Route("/favorites", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", h.ListFavorites)
		r.Post("/", h.AddFavorite)
		r.Delete("/{mealId}", h.RemoveFavorite)
	})

	r.Route("/meal-plans", func(r chi.Router) {
		r.Get("/", h.ListMealPlans)
		r.With(requireAuth).Get("/user/my-plans", h.ListMyMealPlans)
		r.With(optionalAuth).Get("/{id}", h.GetMealPlan)
		r.With(requireAuth).Post("/", h.CreateMealPlan)
	})

	r.Route("/user", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/profile", h.GetProfile)
		r.Put("/update-profile", h.UpdateProfile)
		r.Post("/change-password", h.ChangePassword)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/summary", h.GetSummary)
		r.Get("/activity-logs", h.GetActivityLogs)
		r.Put("/unblock-ip", h.UnblockIP)
	})

	if h.Orders != nil {
		r.Get("/ws/orders", h.OrderEvents)
	}

	return r
}
