package http

import (
	"net/http"

	"qrenoo/internal/delivery/http/handler"
	"qrenoo/internal/delivery/http/middleware"
	"qrenoo/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	proHandler        *handler.ProHandler
	bookingHandler    *handler.BookingHandler
	profileHandler    *handler.ProfileHandler
	adminHandler      *handler.AdminHandler
	billingHandler    *handler.BillingHandler
	authMiddleware    *middleware.AuthMiddleware
	featureMiddleware *middleware.FeatureMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
}

func NewRouter(
	proHandler *handler.ProHandler,
	bookingHandler *handler.BookingHandler,
	profileHandler *handler.ProfileHandler,
	adminHandler *handler.AdminHandler,
	billingHandler *handler.BillingHandler,
	authMiddleware *middleware.AuthMiddleware,
	featureMiddleware *middleware.FeatureMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		proHandler:        proHandler,
		bookingHandler:    bookingHandler,
		profileHandler:    profileHandler,
		adminHandler:      adminHandler,
		billingHandler:    billingHandler,
		authMiddleware:    authMiddleware,
		featureMiddleware: featureMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public booking pages
	api.HandleFunc("/pros/{id}", r.proHandler.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/pros/{id}/slots", r.proHandler.GetSlots).Methods(http.MethodGet)
	api.HandleFunc("/pros/{id}/rendezvous", r.bookingHandler.CreateRendezvous).Methods(http.MethodPost)
	api.HandleFunc("/verify-rdv", r.bookingHandler.VerifyRendezvous).Methods(http.MethodPost)

	// Stripe webhook (authenticated by signature)
	api.HandleFunc("/stripe/webhook", r.billingHandler.Webhook).Methods(http.MethodPost)

	// Checkout (protected)
	stripe := api.PathPrefix("/stripe").Subrouter()
	stripe.Use(r.authMiddleware.Authenticate)
	stripe.HandleFunc("/checkout", r.billingHandler.CreateCheckout).Methods(http.MethodPost)

	// Dashboard (protected)
	me := api.PathPrefix("/me").Subrouter()
	me.Use(r.authMiddleware.Authenticate)
	me.HandleFunc("/profile", r.profileHandler.GetMyProfile).Methods(http.MethodGet)
	me.HandleFunc("/profile", r.profileHandler.UpdateMyProfile).Methods(http.MethodPut)
	me.HandleFunc("/features", r.profileHandler.GetMyFeatures).Methods(http.MethodGet)
	me.HandleFunc("/rendezvous", r.bookingHandler.GetMyRendezvous).Methods(http.MethodGet)

	// Feature-gated exports
	export := me.PathPrefix("/rendezvous/export").Subrouter()
	export.Use(r.featureMiddleware.RequireFeature(entity.FeatureExportRendezvous))
	export.HandleFunc("", r.bookingHandler.ExportMyRendezvous).Methods(http.MethodGet)

	// Admin routes (admin rights are checked by the usecase)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.HandleFunc("/assign-subscription", r.adminHandler.AssignSubscription).Methods(http.MethodPost)
	admin.HandleFunc("/users", r.adminHandler.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/logs", r.adminHandler.ListLogs).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
