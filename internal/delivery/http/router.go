package http

import (
	"net/http"

	"medical-appointment-booking/internal/delivery/http/handler"
	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	healthHandler       *handler.HealthHandler
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	doctorHandler       *handler.DoctorHandler
	patientHandler      *handler.PatientHandler
	availabilityHandler *handler.AvailabilityHandler
	timeSlotHandler     *handler.TimeSlotHandler
	appointmentHandler  *handler.AppointmentHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
	rateLimiter         *middleware.RateLimiter
}

func NewRouter(
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	availabilityHandler *handler.AvailabilityHandler,
	timeSlotHandler *handler.TimeSlotHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		healthHandler:       healthHandler,
		authHandler:         authHandler,
		userHandler:         userHandler,
		doctorHandler:       doctorHandler,
		patientHandler:      patientHandler,
		availabilityHandler: availabilityHandler,
		timeSlotHandler:     timeSlotHandler,
		appointmentHandler:  appointmentHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
		rateLimiter:         rateLimiter,
	}
}

// Setup registers every route and returns the root handler. CORS and access
// logging wrap the router so they also see unmatched and preflight requests.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthHandler.Check).Methods(http.MethodGet)

	// Auth routes (public, rate limited)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(r.rateLimiter.Limit)
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", r.authHandler.ForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", r.authHandler.ResetPassword).Methods(http.MethodPost)

	// Everything below requires a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Users
	protected.Handle("/users", middleware.RequireAdmin(http.HandlerFunc(r.userHandler.ListUsers))).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", r.userHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id:[0-9]+}", r.userHandler.GetUser).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id:[0-9]+}", r.userHandler.UpdateUser).Methods(http.MethodPut)

	// Doctors
	protected.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id:[0-9]+}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	protected.Handle("/doctors/{id:[0-9]+}", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.doctorHandler.UpdateDoctor))).Methods(http.MethodPut)
	protected.HandleFunc("/doctors/{id:[0-9]+}/timeslots", r.doctorHandler.GetTimeSlots).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id:[0-9]+}/timeslots/booked", r.doctorHandler.GetBookedTimeSlots).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id:[0-9]+}/availability", r.doctorHandler.GetAvailability).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id:[0-9]+}/availability/this-week", r.doctorHandler.GetAvailabilityThisWeek).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id:[0-9]+}/appointments", r.doctorHandler.GetAppointments).Methods(http.MethodGet)

	// Patients
	protected.Handle("/patients", middleware.RequireAdmin(http.HandlerFunc(r.patientHandler.GetAllPatients))).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id:[0-9]+}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	protected.Handle("/patients/{id:[0-9]+}", middleware.RequireAdminOrPatient(http.HandlerFunc(r.patientHandler.UpdatePatient))).Methods(http.MethodPut)
	protected.HandleFunc("/patients/{id:[0-9]+}/appointments", r.patientHandler.GetAppointments).Methods(http.MethodGet)

	// Availability and time slots
	protected.Handle("/availability", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.availabilityHandler.CreateAvailability))).Methods(http.MethodPost)
	protected.Handle("/timeslots", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.timeSlotHandler.CreateTimeSlot))).Methods(http.MethodPost)
	protected.HandleFunc("/timeslots/available", r.timeSlotHandler.GetAvailableTimeSlots).Methods(http.MethodGet)
	protected.Handle("/timeslots/{id:[0-9]+}", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.timeSlotHandler.GetTimeSlot))).Methods(http.MethodGet)
	protected.Handle("/timeslots/{id:[0-9]+}", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.timeSlotHandler.DeleteTimeSlot))).Methods(http.MethodDelete)

	// Appointments
	protected.Handle("/appointments", middleware.RequireAdmin(http.HandlerFunc(r.appointmentHandler.GetAllAppointments))).Methods(http.MethodGet)
	protected.Handle("/appointments", middleware.RequireAdminOrPatient(http.HandlerFunc(r.appointmentHandler.BookAppointment))).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id:[0-9]+}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id:[0-9]+}", r.appointmentHandler.CancelAppointment).Methods(http.MethodDelete)
	protected.Handle("/appointments/{id:[0-9]+}/notes", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.appointmentHandler.AddNotes))).Methods(http.MethodPost)

	// Audit logs (admin)
	protected.Handle("/audit-logs", middleware.RequireAdmin(http.HandlerFunc(r.auditLogHandler.GetAllAuditLogs))).Methods(http.MethodGet)
	protected.Handle("/audit-logs/{id:[0-9]+}", middleware.RequireAdmin(http.HandlerFunc(r.auditLogHandler.GetAuditLog))).Methods(http.MethodGet)

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	return r.corsMiddleware.Handle(r.loggingMiddleware.Handle(r.router))
}
