// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-place-reservation/internal/handler"
	"github.com/iliyamo/study-place-reservation/internal/middleware"
	"github.com/iliyamo/study-place-reservation/internal/model"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Places       *handler.StudyPlaceHandler
	Reservations *handler.ReservationHandler
	Approvals    *handler.ApprovalHandler
	Reactions    *handler.ReactionHandler
}

// Register mounts all application routes on the Echo instance.  The
// auth endpoints under /v1/auth are public; everything else requires a
// valid access token, and the staff-only resource administration and
// approval endpoints additionally require the library_staff role.  The
// engine re-checks its own policy table, so the role middleware here
// only rejects requests early.
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	pub := e.Group("/v1/auth")
	pub.POST("/register", h.Auth.Register)
	pub.POST("/login", h.Auth.Login)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole(model.RoleStudent, model.RoleTeacher, model.RoleLibraryStaff))

	v1.GET("/me", h.Auth.Me)

	// Catalog browsing, likes and comments are open to every role.
	v1.GET("/study-places", h.Places.List)
	v1.GET("/study-places/:id", h.Places.Get)
	v1.GET("/study-places/:id/counts", h.Reactions.Counts)
	v1.POST("/study-places/:id/like", h.Reactions.ToggleLike)
	v1.GET("/study-places/:id/comments", h.Reactions.ListComments)
	v1.POST("/study-places/:id/comments", h.Reactions.AddComment)

	// Booking endpoints.  The engine rejects staff here via its policy
	// table.
	v1.POST("/reservations", h.Reservations.Create)
	v1.PUT("/reservations/:id", h.Reservations.Edit)
	v1.DELETE("/reservations/:id", h.Reservations.Delete)
	v1.GET("/reservations", h.Reservations.ListMine)

	// Resource administration and the approval workflow are staff-only.
	staff := v1.Group("", middleware.RequireRole(model.RoleLibraryStaff))
	staff.POST("/study-places", h.Places.Create)
	staff.PATCH("/study-places/:id/availability", h.Places.SetAvailability)
	staff.DELETE("/study-places/:id", h.Places.Delete)
	staff.GET("/approvals/pending", h.Approvals.ListPending)
	staff.GET("/approvals", h.Approvals.ListAll)
	staff.POST("/approvals/:id/approve", h.Approvals.Approve)
	staff.POST("/approvals/:id/reject", h.Approvals.Reject)
}
