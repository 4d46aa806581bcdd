// routes/routes.go
package routes

import (
	"net/http"

	"campus-events/controllers"
	"campus-events/middleware"
	"campus-events/models"

	"github.com/gorilla/mux"
)

// Controllers groups everything RegisterRoutes wires
type Controllers struct {
	Events      *controllers.EventController
	Review      *controllers.ReviewController
	Upload      *controllers.UploadController
	Enrollments *controllers.EnrollmentController
	Health      *controllers.HealthController
	Accounts    []*controllers.AccountController
}

// Options toggles route-level policy
type Options struct {
	UploadDir              string
	RequireAdminModeration bool
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, auth *middleware.Auth, c Controllers, opts Options) {
	router.HandleFunc("/health", c.Health.Health).Methods("GET")

	// Event wizard; an organizer token is optional and sets ownership
	wizard := router.NewRoute().Subrouter()
	wizard.Use(auth.Optional)
	wizard.HandleFunc("/addBasicInfo", c.Events.AddBasicInfo).Methods("POST")
	wizard.HandleFunc("/create-event", c.Events.CreateRegistration).Methods("POST")
	wizard.HandleFunc("/contact", c.Events.CreateContact).Methods("POST")
	wizard.HandleFunc("/upload-poster", c.Upload.UploadPoster).Methods("POST")

	// Review read model
	router.HandleFunc("/review", c.Review.ListReview).Methods("GET")
	router.HandleFunc("/review/{eventId}", c.Review.GetReview).Methods("GET")

	// Moderation
	guard := auth.Optional
	if opts.RequireAdminModeration {
		guard = auth.Require(models.RoleAdmin)
	}
	router.Handle("/review/{eventId}", guard(http.HandlerFunc(c.Review.UpdateStatus))).Methods("PUT")

	// Student browsing and enrollment
	router.HandleFunc("/events", c.Enrollments.ListApproved).Methods("GET")
	students := router.NewRoute().Subrouter()
	students.Use(auth.Require(models.RoleStudent))
	students.HandleFunc("/events/{eventId}/enroll", c.Enrollments.Enroll).Methods("POST")
	students.HandleFunc("/student/enrollments", c.Enrollments.ListMyEnrollments).Methods("GET")

	organizers := router.PathPrefix("/organizer").Subrouter()
	organizers.Use(auth.Require(models.RoleOrganizer))
	organizers.HandleFunc("/events", c.Enrollments.ListOrganizerEvents).Methods("GET")

	// Accounts, one prefix per role
	for _, ac := range c.Accounts {
		prefix := "/" + ac.Role
		router.HandleFunc(prefix+"/signup", ac.Signup).Methods("POST")
		router.HandleFunc(prefix+"/login", ac.Login).Methods("POST")
		profile := router.PathPrefix(prefix + "/profile").Subrouter()
		profile.Use(auth.Require(ac.Role))
		profile.HandleFunc("", ac.GetProfile).Methods("GET")
	}

	// Uploaded posters
	if opts.UploadDir != "" {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))),
		).Methods("GET")
	}
}
