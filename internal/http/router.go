package http

import (
	"context"
	"time"

	"github.com/geocoder89/hrhub/internal/auth"
	"github.com/geocoder89/hrhub/internal/config"
	"github.com/geocoder89/hrhub/internal/http/handlers"
	"github.com/geocoder89/hrhub/internal/http/middlewares"
	"github.com/geocoder89/hrhub/internal/observability"
	"github.com/geocoder89/hrhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxRequestBody = 1 << 20

func NewRouter(pool *pgxpool.Pool, cfg config.Config, rdb *redis.Client, prom *observability.Prom) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(otelgin.Middleware("hrhub"))
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxRequestBody))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	employeesRepo := postgres.NewEmployeesRepo(pool, prom)
	attendanceRepo := postgres.NewAttendanceRepo(pool, prom)
	leavesRepo := postgres.NewLeavesRepo(pool, prom)
	payrollRepo := postgres.NewPayrollRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())
	authMw := middlewares.NewAuthMiddleware(jwtManager, prom)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager, prom)
	employeesHandler := handlers.NewEmployeesHandler(employeesRepo, usersRepo)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceRepo)
	leavesHandler := handlers.NewLeavesHandler(leavesRepo)
	payrollHandler := handlers.NewPayrollHandler(payrollRepo, usersRepo)

	// signup and login take the brunt of abusive traffic
	limiter := middlewares.NewRateLimiter(rdb, 20, time.Minute)

	authGroup := r.Group("/auth")
	authGroup.Use(limiter.RateLimiterMiddleware(middlewares.KeyByIP))
	{
		authGroup.POST("/signup", authHandler.SignUp)
		authGroup.POST("/login", authHandler.Login)
	}

	employeeGroup := r.Group("/employee")
	employeeGroup.Use(authMw.RequireAuth())
	{
		employeeGroup.GET("/profile", employeesHandler.GetMyProfile)
		employeeGroup.PUT("/profile", employeesHandler.UpdateMyProfile)

		// admins or the employee themselves, checked in the handler
		employeeGroup.GET("/:id", employeesHandler.GetEmployee)

		admin := employeeGroup.Group("")
		admin.Use(authMw.RequireAdmin())
		{
			admin.GET("/all", employeesHandler.ListEmployees)
			admin.GET("/stats", employeesHandler.GetStats)
			admin.PUT("/:id", employeesHandler.UpdateEmployee)
			admin.DELETE("/:id", employeesHandler.DeleteEmployee)
		}
	}

	attendanceGroup := r.Group("/attendance")
	attendanceGroup.Use(authMw.RequireAuth())
	{
		attendanceGroup.POST("/checkin", attendanceHandler.CheckIn)
		attendanceGroup.POST("/checkout", attendanceHandler.CheckOut)
		attendanceGroup.GET("/my", attendanceHandler.ListMine)
		attendanceGroup.GET("/all", authMw.RequireAdmin(), attendanceHandler.ListByDate)
	}

	leaveGroup := r.Group("/leave")
	leaveGroup.Use(authMw.RequireAuth())
	{
		leaveGroup.POST("/leaves", leavesHandler.Apply)
		leaveGroup.GET("/leaves", leavesHandler.List)
		leaveGroup.PUT("/:id/review", authMw.RequireAdmin(), leavesHandler.Review)
	}

	payrollGroup := r.Group("/payroll")
	payrollGroup.Use(authMw.RequireAuth())
	{
		payrollGroup.GET("/my-salary", payrollHandler.MySalary)

		admin := payrollGroup.Group("")
		admin.Use(authMw.RequireAdmin())
		{
			admin.GET("/all", payrollHandler.ListByMonth)
			admin.GET("/employee/:id", payrollHandler.EmployeeHistory)
			admin.POST("/update/:id", payrollHandler.Upsert)
			admin.PUT("/update/:id", payrollHandler.Upsert)
			admin.DELETE("/delete/:id/:month", payrollHandler.Delete)
		}
	}

	return r
}
