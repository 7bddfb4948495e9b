package v1

import (
	"go_attendance/api/v1/attendance"
	"go_attendance/api/v1/auth"
	"go_attendance/api/v1/calendar"
	"go_attendance/api/v1/leaves"
	"go_attendance/api/v1/middleware"
	"go_attendance/api/v1/reports"
	"go_attendance/api/v1/users"
	attendancesvc "go_attendance/internal/attendance"
	internalauth "go_attendance/internal/auth"
	calendarsvc "go_attendance/internal/calendar"
	"go_attendance/internal/config"
	"go_attendance/internal/httpx"
	leavesvc "go_attendance/internal/leave"
	"go_attendance/internal/ratelimit"
	reportsvc "go_attendance/internal/report"
	usersvc "go_attendance/internal/user"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the shared infrastructure the routes are wired against.
// Limiter and Denylist may be built on a nil redis client, in which case
// rate limiting and token revocation are disabled.
type Deps struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Limiter  *ratelimit.Limiter
	Denylist *internalauth.Denylist
	Events   attendancesvc.EventPublisher
}

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, deps Deps) {
	userSvc := usersvc.NewService(deps.DB)
	authHandler := auth.NewHandler(userSvc, deps.Cfg, deps.Limiter, deps.Denylist)
	usersHandler := users.NewHandler(userSvc)
	attendanceHandler := attendance.NewHandler(attendancesvc.NewService(deps.DB, deps.Events))
	calendarHandler := calendar.NewHandler(calendarsvc.NewService(deps.DB))
	leavesHandler := leaves.NewHandler(leavesvc.NewService(deps.DB, deps.Events))
	reportsHandler := reports.NewHandler(reportsvc.NewService(deps.DB))

	v1 := r.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.GET("/ping", pingHandler)

		v1.POST("/auth/login", authHandler.Login)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired(deps.Denylist))
		{
			authGroup := protected.Group("/auth")
			{
				authGroup.POST("/logout", authHandler.Logout)
				authGroup.GET("/me", authHandler.Me)
				authGroup.POST("/change-password", authHandler.ChangePassword)
			}

			attendanceGroup := protected.Group("/attendance")
			{
				attendanceGroup.POST("/check-in", attendanceHandler.CheckIn)
				attendanceGroup.POST("/check-out", attendanceHandler.CheckOut)
				attendanceGroup.GET("/today", attendanceHandler.Today)
				attendanceGroup.GET("", attendanceHandler.List)
				attendanceGroup.PUT("/:id", middleware.AdminRequired(), attendanceHandler.Update)
				attendanceGroup.DELETE("/:id", middleware.AdminRequired(), attendanceHandler.Delete)
			}

			calendarGroup := protected.Group("/calendar")
			{
				calendarGroup.GET("", calendarHandler.List)
				calendarGroup.GET("/working-days", calendarHandler.WorkingDays)
				calendarGroup.POST("", middleware.AdminRequired(), calendarHandler.Create)
				calendarGroup.PUT("/:id", middleware.AdminRequired(), calendarHandler.Update)
				calendarGroup.DELETE("/:id", middleware.AdminRequired(), calendarHandler.Delete)
			}

			leavesGroup := protected.Group("/leaves")
			{
				leavesGroup.POST("", leavesHandler.Create)
				leavesGroup.GET("", leavesHandler.List)
				leavesGroup.GET("/balance", leavesHandler.Balance)
				leavesGroup.PUT("/:id/status", middleware.AdminRequired(), leavesHandler.SetStatus)
				leavesGroup.PUT("/:id", leavesHandler.Update)
				leavesGroup.DELETE("/:id", leavesHandler.Delete)
			}

			// Listing, creating and deleting accounts is admin-only;
			// reading a profile and self-editing are not, the service
			// ignores admin-only fields for plain callers
			usersGroup := protected.Group("/users")
			{
				usersGroup.GET("", middleware.AdminRequired(), usersHandler.List)
				usersGroup.GET("/:id", usersHandler.Get)
				usersGroup.POST("", middleware.AdminRequired(), usersHandler.Create)
				usersGroup.PUT("/:id", usersHandler.Update)
				usersGroup.DELETE("/:id", middleware.AdminRequired(), usersHandler.Delete)
			}

			reportsGroup := protected.Group("/reports", middleware.AdminRequired())
			{
				reportsGroup.GET("/stats", reportsHandler.Stats)
				reportsGroup.GET("/attendance", reportsHandler.Attendance)
				reportsGroup.GET("/employees", reportsHandler.Employees)
				reportsGroup.GET("/leaves", reportsHandler.Leaves)
			}
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}
