package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth           *AuthHandler
	Students       *StudentHandler
	Programs       *ProgramHandler
	Structures     *StructureHandler
	ProgramInfo    *ProgramInfoHandler
	Courses        *CourseHandler
	Admissions     *AdmissionHandler
	Contact        *ContactHandler
	StudentProgram *StudentProgramHandler
	Enrollments    *EnrollmentHandler
	Progress       *ProgressHandler
	Metrics        *MetricsHandler
}

// SetupRouter mounts the API routes on router under prefix.
func SetupRouter(router *gin.Engine, prefix string, h Handlers, tokens middleware.TokenValidator, logger *zap.Logger) {
	router.GET("/health", h.Metrics.Health)
	router.GET("/ready", h.Metrics.Ready)
	router.GET("/metrics", h.Metrics.Prometheus)

	api := router.Group(prefix)
	api.Use(middleware.WithResponseMeta())

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.JWT(tokens), h.Auth.Me)
	}

	// Public catalog and forms.
	api.GET("/programs", h.Programs.List)
	api.GET("/programs/:id", h.Programs.Get)
	api.GET("/programs/:id/structure", h.Structures.Get)
	api.GET("/programs/:id/requirements", h.ProgramInfo.GetRequirements)
	api.GET("/programs/:id/tuition", h.ProgramInfo.GetTuition)
	api.GET("/courses", h.Courses.List)
	api.GET("/courses/catalog", h.Courses.Catalog)
	api.GET("/courses/:id", h.Courses.Get)
	api.POST("/admissions", h.Admissions.Submit)
	api.POST("/contact", h.Contact.Submit)

	authed := api.Group("")
	authed.Use(middleware.JWT(tokens))

	selfOrAdmin := middleware.RBAC(string(models.RoleAdmin), middleware.Self)
	{
		authed.GET("/students/:id", selfOrAdmin, h.Students.Get)
		authed.GET("/students/:id/progress", selfOrAdmin, h.Progress.Progress)
		authed.GET("/students/:id/transcript", selfOrAdmin, h.Progress.Transcript)
		authed.GET("/student-programs/:studentId", selfOrAdmin, h.StudentProgram.Active)
		authed.POST("/student-programs", h.StudentProgram.Join)
		authed.GET("/enrollments", h.Enrollments.List)
		authed.POST("/enrollments", h.Enrollments.Enroll)
	}

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/students", h.Students.List)
		admin.GET("/metrics/summary", h.Metrics.Summary)

		admin.POST("/programs", middleware.Audit(logger, "create", "program"), h.Programs.Create)
		admin.PUT("/programs/:id", middleware.Audit(logger, "update", "program"), h.Programs.Update)
		admin.DELETE("/programs/:id", middleware.Audit(logger, "delete", "program"), h.Programs.Delete)
		admin.PUT("/programs/:id/structure", middleware.Audit(logger, "save", "program_structure"), h.Structures.Save)
		admin.DELETE("/programs/:id/structure", middleware.Audit(logger, "delete", "program_structure"), h.Structures.Delete)
		admin.POST("/programs/:id/requirements", middleware.Audit(logger, "create", "requirements"), h.ProgramInfo.CreateRequirements)
		admin.PUT("/programs/:id/requirements", middleware.Audit(logger, "update", "requirements"), h.ProgramInfo.UpdateRequirements)
		admin.DELETE("/programs/:id/requirements", middleware.Audit(logger, "delete", "requirements"), h.ProgramInfo.DeleteRequirements)
		admin.POST("/programs/:id/tuition", middleware.Audit(logger, "create", "tuition"), h.ProgramInfo.CreateTuition)
		admin.PUT("/programs/:id/tuition", middleware.Audit(logger, "update", "tuition"), h.ProgramInfo.UpdateTuition)
		admin.DELETE("/programs/:id/tuition", middleware.Audit(logger, "delete", "tuition"), h.ProgramInfo.DeleteTuition)

		admin.POST("/courses", middleware.Audit(logger, "create", "course"), h.Courses.Create)
		admin.PUT("/courses/:id", middleware.Audit(logger, "update", "course"), h.Courses.Update)
		admin.DELETE("/courses/:id", middleware.Audit(logger, "delete", "course"), h.Courses.Delete)

		admin.GET("/admissions", h.Admissions.List)
		admin.PATCH("/admissions/:id/status", middleware.Audit(logger, "decide", "admission"), h.Admissions.Decide)
		admin.DELETE("/admissions/:id", middleware.Audit(logger, "delete", "admission"), h.Admissions.Delete)

		admin.GET("/contact", h.Contact.List)
		admin.PATCH("/contact/:id/read", h.Contact.MarkRead)
		admin.DELETE("/contact/:id", middleware.Audit(logger, "delete", "contact_message"), h.Contact.Delete)

		admin.PATCH("/student-programs/:id", middleware.Audit(logger, "update", "student_program"), h.StudentProgram.Update)
		admin.PUT("/enrollments/:id/grade", middleware.Audit(logger, "grade", "enrollment"), h.Enrollments.SetGrade)
		admin.DELETE("/enrollments/:id", middleware.Audit(logger, "drop", "enrollment"), h.Enrollments.Drop)
	}
}
