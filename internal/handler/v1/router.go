package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/config"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports database reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDeps struct {
	Config    *config.Config
	Log       *zap.Logger
	Metrics   *metrics.Collector
	JWT       *auth.JWTManager
	IPLimiter *ratelimit.IPLimiter
	// AuthLimiter is nil when redis is disabled.
	AuthLimiter *ratelimit.RedisWindow
	DB          Pinger
	// MailState reports the relay circuit breaker; nil for log-only mail.
	MailState func() string
	Services  Services
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(d.Log),
		middleware.Logger(d.Log),
		middleware.Tracing(d.Config.Tracing.ServiceName),
		middleware.Metrics(d.Metrics),
		middleware.CORS(d.Config.CORS),
		middleware.SecurityHeaders(),
		middleware.IPRateLimit(d.IPLimiter, d.Metrics),
	)

	r.GET("/healthz", healthz(d.DB, d.MailState, d.Config.App.Version))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	h := NewHandler(d.Services, d.Log)
	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	if d.AuthLimiter != nil {
		authGroup.Use(middleware.AuthRateLimit(d.AuthLimiter, d.Metrics, d.Log))
	}
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.Refresh)

	// Public
	api.GET("/faqs", h.ListFAQs)
	api.GET("/faqs/:id", h.GetFAQ)
	api.POST("/patient-requests", h.SubmitPatientRequest)
	api.POST("/contact", h.SubmitContact)

	authed := api.Group("", middleware.Authenticate(d.JWT))
	authed.POST("/auth/change-password", h.ChangePassword)

	protected := authed.Group("", middleware.RequirePasswordChanged())
	admin := protected.Group("", middleware.RequireRoles(domain.RoleAdmin))

	admin.POST("/faqs", h.CreateFAQ)
	admin.PUT("/faqs/:id", h.UpdateFAQ)
	admin.DELETE("/faqs/:id", h.DeleteFAQ)

	protected.GET("/departments", h.ListDepartments)
	protected.GET("/departments/:id", h.GetDepartment)
	protected.GET("/departments/:id/rooms", h.ListDepartmentRooms)
	protected.POST("/departments", h.CreateDepartment)
	protected.PUT("/departments/:id", h.UpdateDepartment)
	protected.DELETE("/departments/:id", h.DeleteDepartment)

	protected.GET("/rooms", h.ListRooms)
	protected.GET("/rooms/:id", h.GetRoom)
	protected.GET("/rooms/:id/availability", h.RoomAvailability)
	protected.POST("/rooms", h.CreateRoom)
	protected.PUT("/rooms/:id", h.UpdateRoom)
	protected.DELETE("/rooms/:id", h.DeleteRoom)

	protected.GET("/doctors", h.ListDoctors)
	protected.GET("/doctors/me", h.GetMyDoctorProfile)
	protected.GET("/doctors/:id", h.GetDoctor)
	protected.POST("/doctors", h.CreateDoctor)
	protected.PUT("/doctors/:id", h.UpdateDoctor)
	protected.DELETE("/doctors/:id", h.DeleteDoctor)
	protected.POST("/doctors/:id/departments/:departmentId", h.AssignDoctorDepartment)
	protected.DELETE("/doctors/:id/departments/:departmentId", h.UnassignDoctorDepartment)

	protected.GET("/nurses", h.ListNurses)
	protected.GET("/nurses/me", h.GetMyNurseProfile)
	protected.GET("/nurses/:id", h.GetNurse)
	protected.POST("/nurses", h.CreateNurse)
	protected.PUT("/nurses/:id", h.UpdateNurse)
	protected.DELETE("/nurses/:id", h.DeleteNurse)

	protected.GET("/patients", h.ListPatients)
	protected.GET("/patients/:id", h.GetPatient)
	protected.GET("/patients/:id/medical-records", h.ListPatientRecords)
	protected.POST("/patients", h.CreatePatient)
	protected.PUT("/patients/:id", h.UpdatePatient)
	protected.DELETE("/patients/:id", h.DeletePatient)

	protected.GET("/appointments", h.ListAppointments)
	protected.GET("/appointments/:id", h.GetAppointment)
	protected.POST("/appointments", h.CreateAppointment)
	protected.PUT("/appointments/:id", h.UpdateAppointment)
	protected.POST("/appointments/:id/cancel", h.CancelAppointment)
	protected.POST("/appointments/:id/complete", h.CompleteAppointment)
	protected.DELETE("/appointments/:id", h.DeleteAppointment)

	protected.GET("/medical-records/patient/:patientId", h.PatientRecord)
	protected.GET("/medical-records/:id", h.GetMedicalRecord)
	protected.GET("/medical-records/:id/prescriptions", h.ListRecordPrescriptions)
	protected.POST("/medical-records", h.CreateMedicalRecord)
	protected.PUT("/medical-records/:id", h.UpdateMedicalRecord)
	protected.DELETE("/medical-records/:id", h.DeleteMedicalRecord)

	protected.GET("/prescriptions", h.ListPrescriptions)
	protected.GET("/prescriptions/:id", h.GetPrescription)
	protected.POST("/prescriptions", h.CreatePrescription)
	protected.PUT("/prescriptions/:id", h.UpdatePrescription)
	protected.DELETE("/prescriptions/:id", h.DeletePrescription)

	protected.GET("/shifts", h.ListShifts)
	protected.GET("/shifts/active-nurses", h.ActiveNurseShifts)
	protected.GET("/shifts/staff/:staffId", h.ListStaffShifts)
	protected.GET("/shifts/role/:role", h.ListRoleShifts)
	protected.GET("/shifts/:id", h.GetShift)
	protected.POST("/shifts", h.CreateShift)
	protected.PUT("/shifts/:id", h.UpdateShift)
	protected.DELETE("/shifts/:id", h.DeleteShift)

	protected.POST("/alerts/urgent", h.SendUrgentAlert)

	admin.GET("/patient-requests", h.ListPendingPatientRequests)
	admin.GET("/patient-requests/:id", h.GetPatientRequest)
	admin.POST("/patient-requests/:id/approve", h.ApprovePatientRequest)
	admin.POST("/patient-requests/:id/reject", h.RejectPatientRequest)

	admin.GET("/audit-logs", h.ListAuditLogs)
	admin.GET("/audit-logs/:id", h.GetAuditLog)
	admin.GET("/dashboard", h.Dashboard)

	return r
}

// healthz fails only on the database; an open mail breaker is reported
// but leaves the API serving.
func healthz(db Pinger, mailState func() string, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		body := gin.H{"status": "ok", "version": version}
		if mailState != nil {
			body["mail"] = mailState()
		}
		c.JSON(http.StatusOK, body)
	}
}
