package http

import (
	"net/http"

	_ "github.com/DRSN-tech/calories-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Usecases struct {
	Auth         usecase.AuthUC
	Category     usecase.CategoryUC
	Product      usecase.ProductUC
	EatenProduct usecase.EatenProductUC
	TotalKcal    usecase.TotalKcalUC
}

// Metrics отдаёт HTTP-часть метрик. nil отключает /metrics.
type Metrics interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

type Router struct {
	router     *chi.Mux
	logger     logger.Logger
	swaggerURL string
}

func NewRouter(router *chi.Mux, logger logger.Logger, swaggerURL string) *Router {
	return &Router{router: router, logger: logger, swaggerURL: swaggerURL}
}

func (r *Router) Init(uc Usecases, metrics Metrics) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)
	r.router.Use(RequestLogger(r.logger))
	if metrics != nil {
		r.router.Use(metrics.Middleware)
		r.router.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(r.swaggerURL), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.StripSlashes)
		v1.Use(Authenticator(uc.Auth, r.logger))

		registerAuthRoutes(v1, NewAuthHandler(uc.Auth, r.logger))
		registerCategoryRoutes(v1, NewCategoryHandler(uc.Category, r.logger))
		registerProductRoutes(v1, NewProductHandler(uc.Product, r.logger))
		registerEatenProductRoutes(v1, NewEatenProductHandler(uc.EatenProduct, r.logger))
		registerTotalKcalRoutes(v1, NewTotalKcalHandler(uc.TotalKcal, r.logger))
	})
}

func registerAuthRoutes(router chi.Router, h *AuthHandler) {
	router.Route("/auth", func(a chi.Router) {
		a.Post("/users", h.register)
		a.Get("/users/me", h.me)
		a.Post("/jwt/create", h.createToken)
		a.Post("/jwt/refresh", h.refreshToken)
		a.Post("/jwt/verify", h.verifyToken)
	})
}

func registerCategoryRoutes(router chi.Router, h *CategoryHandler) {
	router.Route("/categories", func(c chi.Router) {
		c.Get("/", h.list)
		c.Post("/", h.create)
		c.Get("/{slug}", h.get)
		c.Put("/{slug}", h.replace)
		c.Patch("/{slug}", h.patch)
		c.Delete("/{slug}", h.delete)
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.list)
		pr.Post("/", h.create)
		pr.Get("/{id}", h.get)
		pr.Put("/{id}", h.replace)
		pr.Patch("/{id}", h.patch)
		pr.Delete("/{id}", h.delete)
		pr.Get("/{id}/image", h.getImage)
		pr.Put("/{id}/image", h.uploadImage)
	})
}

func registerEatenProductRoutes(router chi.Router, h *EatenProductHandler) {
	router.Route("/my_products", func(m chi.Router) {
		m.Get("/", h.list)
		m.Post("/", h.create)
		m.Get("/{id}", h.get)
		m.Put("/{id}", h.replace)
		m.Patch("/{id}", h.patch)
		m.Delete("/{id}", h.delete)
	})
}

func registerTotalKcalRoutes(router chi.Router, h *TotalKcalHandler) {
	router.Route("/total_kcal", func(t chi.Router) {
		t.Get("/", h.list)
		t.Get("/{date}", h.get)
	})
}
