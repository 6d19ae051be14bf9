package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"staybook/internal/apartment"
	"staybook/internal/api"
	"staybook/internal/audit"
	"staybook/internal/booking"
	"staybook/internal/events"
	"staybook/internal/gallery"
	"staybook/internal/payment"
	"staybook/internal/user"
	"staybook/internal/verification"
	"staybook/pkg/config"
	"staybook/pkg/token"
)

type Dependencies struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Tokens *token.Service
	Log    *zap.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(api.RequestLogger(deps.Log))
	r.Use(api.CORSMiddleware(api.CORSOptions{
		AllowedOrigins: deps.Cfg.AllowedOrigins,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	usersRepo := user.NewRepository(deps.DB)
	auditRepo := audit.NewRepository(deps.DB)
	eventsRepo := events.NewRepository(deps.DB)
	apartmentsRepo := apartment.NewRepository(deps.DB)
	galleryRepo := gallery.NewRepository(deps.DB)
	bookingsRepo := booking.NewRepository(deps.DB)
	verificationsRepo := verification.NewRepository(deps.DB)
	paymentsRepo := payment.NewRepository(deps.DB)

	verificationSvc := verification.NewService(verificationsRepo)
	machine := booking.NewMachine(bookingsRepo, verificationSvc, deps.Cfg.PendingExpiry, deps.Log)
	paymentSvc := payment.NewService(bookingsRepo, paymentsRepo, deps.Cfg.Gateway.KeySecret, deps.Log)

	userHandlers := user.Handlers{Users: usersRepo, Tokens: deps.Tokens, Log: deps.Log}
	apartmentHandlers := apartment.Handlers{Apartments: apartmentsRepo, Gallery: galleryRepo, Log: deps.Log}
	galleryHandlers := gallery.Handlers{Images: galleryRepo, Audit: auditRepo, Log: deps.Log}
	bookingHandlers := booking.Handlers{
		Machine:       machine,
		Bookings:      bookingsRepo,
		Apartments:    apartmentsRepo,
		Events:        eventsRepo,
		Audit:         auditRepo,
		PendingExpiry: deps.Cfg.PendingExpiry,
		Log:           deps.Log,
	}
	verificationHandlers := verification.Handlers{
		Service: verificationSvc,
		Records: verificationsRepo,
		Audit:   auditRepo,
		Log:     deps.Log,
	}
	paymentHandlers := payment.Handlers{
		Service:  paymentSvc,
		Payments: paymentsRepo,
		Events:   eventsRepo,
		Log:      deps.Log,
	}

	sessionAuth := api.SessionAuth(deps.Tokens, usersRepo)

	r.Route("/v1", func(r chi.Router) {
		// Public site
		r.Post("/auth/register", userHandlers.Register)
		r.Post("/auth/login", userHandlers.Login)
		r.Get("/apartments", apartmentHandlers.List)
		r.Get("/apartments/{id}", apartmentHandlers.Get)
		r.Get("/apartments/{id}/gallery", galleryHandlers.List)

		// Gateway callback: authenticated by its HMAC signature, not a session.
		r.Post("/payments/callback", paymentHandlers.Callback)

		// Guest dashboard
		r.Group(func(r chi.Router) {
			r.Use(sessionAuth)

			r.Get("/bookings", bookingHandlers.ListMine)
			r.Post("/bookings", bookingHandlers.Create)
			r.Get("/bookings/{id}", bookingHandlers.GetMine)
			r.Post("/bookings/{id}/cancel", bookingHandlers.CancelMine)
			r.Get("/verification/status", verificationHandlers.Status)
		})

		// Admin console
		r.Route("/admin", func(r chi.Router) {
			r.Use(sessionAuth)
			r.Use(api.RequireAdmin)

			r.Get("/bookings", bookingHandlers.AdminList)
			r.Get("/bookings/stats", bookingHandlers.AdminStats)
			r.Get("/bookings/{id}", bookingHandlers.AdminGet)
			r.Post("/bookings/{id}/confirm", bookingHandlers.Confirm)
			r.Post("/bookings/{id}/cancel", bookingHandlers.AdminCancel)
			r.Delete("/bookings/{id}", bookingHandlers.Delete)
			r.Get("/bookings/{id}/events", bookingHandlers.EventsTimeline)
			r.Get("/bookings/{id}/payments", paymentHandlers.History)
			r.Post("/bookings/{id}/refund", paymentHandlers.Refund)

			r.Get("/verifications/schema", verificationHandlers.Schema)
			r.Post("/verifications", verificationHandlers.Submit)
			r.Get("/verifications/{userId}", verificationHandlers.History)

			r.Post("/apartments", apartmentHandlers.Create)
			r.Patch("/apartments/{id}", apartmentHandlers.Update)
			r.Post("/apartments/{id}/gallery", galleryHandlers.Create)
			r.Delete("/apartments/{id}/gallery/{imageId}", galleryHandlers.Delete)
		})
	})

	return r
}
