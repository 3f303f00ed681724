package http

import (
	"net/http"
	"strings"

	"medcare-api/internal/delivery/http/handler"
	"medcare-api/internal/delivery/http/middleware"
	"medcare-api/internal/domain/entity"
	"medcare-api/pkg/metrics"
	"medcare-api/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Appointment *handler.AppointmentHandler
	Patient     *handler.PatientHandler
	Doctor      *handler.DoctorHandler
	Staff       *handler.StaffHandler
	Admin       *handler.AdminHandler
	AuditLog    *handler.AuditLogHandler
	Health      *handler.HealthHandler
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	authLimiter    *middleware.RateLimiter
	metrics        *metrics.Collector
	log            *logrus.Logger
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	authLimiter *middleware.RateLimiter,
	metrics *metrics.Collector,
	log *logrus.Logger,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		authLimiter:    authLimiter,
		metrics:        metrics,
		log:            log,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Use(middleware.Recovery(r.log))
	r.router.Use(middleware.Logging(r.log))
	r.router.Use(middleware.Metrics(r.metrics))
	r.router.Use(r.corsMiddleware.Handle)

	// CORS preflight for every path
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Prometheus scrape endpoint
	r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)

	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.handlers.Health.Health).Methods(http.MethodGet)

	// Auth routes (public, rate limited)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(r.authLimiter.Handle)
	auth.HandleFunc("/signup", r.handlers.Auth.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/signin", r.handlers.Auth.Signin).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", r.handlers.Auth.Refresh).Methods(http.MethodPost)
	auth.HandleFunc("/logout", r.handlers.Auth.Logout).Methods(http.MethodDelete)

	password := api.PathPrefix("/password").Subrouter()
	password.Use(r.authLimiter.Handle)
	password.HandleFunc("/reset", r.handlers.Auth.ResetPassword).Methods(http.MethodPost)

	// Appointment routes (public)
	appointment := api.PathPrefix("/appointment").Subrouter()
	appointment.HandleFunc("/book", r.handlers.Appointment.Book).Methods(http.MethodPost)
	appointment.HandleFunc("/complete", r.handlers.Appointment.Complete).Methods(http.MethodPost)

	// Appointment routes (protected - patient)
	patientAppointment := api.PathPrefix("/appointment").Subrouter()
	patientAppointment.Use(r.authMiddleware.Authenticate)
	patientAppointment.Use(middleware.RequirePatient)
	patientAppointment.HandleFunc("/duepayment", r.handlers.Appointment.DuePayments).Methods(http.MethodPost)
	patientAppointment.HandleFunc("/cancel", r.handlers.Appointment.Cancel).Methods(http.MethodPost)

	// Patient routes
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/appointments", r.handlers.Patient.Appointments).Methods(http.MethodPost)
	patient.HandleFunc("/prescriptions", r.handlers.Patient.Prescriptions).Methods(http.MethodPost)
	patient.HandleFunc("/appointments/feedbacks/write", r.handlers.Patient.WriteFeedback).Methods(http.MethodPost)
	patient.HandleFunc("/appointments/feedbacks/delete", r.handlers.Patient.DeleteFeedback).Methods(http.MethodPost)

	// Doctor routes (admins may read on behalf of a doctor)
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireAdminOrDoctor)
	doctor.HandleFunc("/appointments", r.handlers.Doctor.Appointments).Methods(http.MethodPost)
	doctor.HandleFunc("/prescriptions", r.handlers.Doctor.Prescriptions).Methods(http.MethodPost)
	doctor.HandleFunc("/appointments/feedbacks", r.handlers.Doctor.Feedbacks).Methods(http.MethodPost)
	doctor.Handle("/prescription/upload",
		middleware.RequireDoctor(http.HandlerFunc(r.handlers.Doctor.UploadPrescription))).Methods(http.MethodPost)

	// Staff routes
	staff := api.PathPrefix("/staff").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireAdminOrStaff)
	staff.HandleFunc("/find/patient", r.handlers.Staff.FindPatient).Methods(http.MethodPost)
	staff.HandleFunc("/register", r.handlers.Staff.RegisterPatient).Methods(http.MethodPost)
	staff.HandleFunc("/payment/accept", r.handlers.Staff.AcceptPayment).Methods(http.MethodPost)
	staff.HandleFunc("/payments/pending", r.handlers.Staff.PendingPayments).Methods(http.MethodGet)
	staff.HandleFunc("/patients", r.handlers.Staff.Patients).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	users := api.PathPrefix("/users").Subrouter()
	users.Use(r.authMiddleware.Authenticate)
	users.Use(middleware.RequireAdmin)
	users.HandleFunc("/finduser", r.handlers.Admin.FindUser).Methods(http.MethodPost)
	users.HandleFunc("/unverified", r.handlers.Admin.Unverified).Methods(http.MethodGet)
	users.HandleFunc("/unverified/verify", r.handlers.Admin.Verify).Methods(http.MethodPost)
	users.HandleFunc("/unverified/reject", r.handlers.Admin.Reject).Methods(http.MethodDelete)
	users.HandleFunc("/doctors", r.handlers.Admin.Doctors).Methods(http.MethodGet)
	users.HandleFunc("/staffs", r.handlers.Admin.Staffs).Methods(http.MethodGet)
	users.HandleFunc("/feedbacks", r.handlers.Admin.Feedbacks).Methods(http.MethodGet)

	adminOnly := func(h http.HandlerFunc) http.Handler {
		return r.authMiddleware.Authenticate(middleware.RequireRole(entity.RoleAdmin)(h))
	}
	api.Handle("/generate/stats", adminOnly(r.handlers.Admin.DoctorStats)).Methods(http.MethodGet)
	api.Handle("/audit-logs", adminOnly(r.handlers.AuditLog.GetRecentAuditLogs)).Methods(http.MethodGet)

	unmatched := r.unmatched()
	r.router.NotFoundHandler = unmatched
	r.router.MethodNotAllowedHandler = unmatched

	return r.router
}

// unmatched answers requests no route accepted. Nested subrouters lose mux's
// method mismatch on the way out, and the OPTIONS catch-all reports one for every
// path, so known paths are looked up here to choose between 405 and 404.
func (r *Router) unmatched() http.Handler {
	allowed := make(map[string][]string)
	_ = r.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}
		allowed[path] = append(allowed[path], methods...)
		return nil
	})

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if methods, ok := allowed[req.URL.Path]; ok {
			w.Header().Set("Allow", strings.Join(methods, ", "))
			response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
			return
		}
		response.NotFound(w, "Route not found")
	})
}
