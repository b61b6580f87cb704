package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"cafetab/internal/admission"
	analyticsctrl "cafetab/internal/analytics/controller"
	menuctrl "cafetab/internal/menu/controller"
	orderctrl "cafetab/internal/order/controller"
)

// NewRouter wires the HTTP surface. The rate limiter (when configured) runs
// before the admission guard, which runs inside order creation.
func NewRouter(
	orderController *orderctrl.OrderController,
	menuController *menuctrl.MenuController,
	analyticsController *analyticsctrl.AnalyticsController,
	limiter *admission.RateLimiter,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/menu", menuController.List)

	r.Route("/orders", func(r chi.Router) {
		if limiter != nil {
			r.With(limiter.Middleware).Post("/", orderController.Create)
		} else {
			r.Post("/", orderController.Create)
		}
		r.Get("/", orderController.List)
		r.Get("/{orderId}", orderController.GetByID)
		r.Patch("/{orderId}", orderController.Update)
		r.Patch("/{orderId}/pay", orderController.Pay)
	})

	r.Get("/analytics/{metric}", analyticsController.GetMetric)

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
