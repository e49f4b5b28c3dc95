package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	httpapi "github.com/campuslaunch/campus-launch-backend/internal/api/http"
	"github.com/campuslaunch/campus-launch-backend/internal/api/http/middleware"
	"github.com/campuslaunch/campus-launch-backend/internal/audit"
	authhttp "github.com/campuslaunch/campus-launch-backend/internal/auth/http"
	courseshttp "github.com/campuslaunch/campus-launch-backend/internal/courses/http"
	coursesrepo "github.com/campuslaunch/campus-launch-backend/internal/courses/repository"
	coursessvc "github.com/campuslaunch/campus-launch-backend/internal/courses/service"
	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
	"github.com/campuslaunch/campus-launch-backend/internal/guard"
	hackhttp "github.com/campuslaunch/campus-launch-backend/internal/hackathons/http"
	hackrepo "github.com/campuslaunch/campus-launch-backend/internal/hackathons/repository"
	hacksvc "github.com/campuslaunch/campus-launch-backend/internal/hackathons/service"
	"github.com/campuslaunch/campus-launch-backend/internal/identity"
	msgrepo "github.com/campuslaunch/campus-launch-backend/internal/messages/repository"
	projectshttp "github.com/campuslaunch/campus-launch-backend/internal/projects/http"
	projectsrepo "github.com/campuslaunch/campus-launch-backend/internal/projects/repository"
	projectssvc "github.com/campuslaunch/campus-launch-backend/internal/projects/service"
	protohttp "github.com/campuslaunch/campus-launch-backend/internal/prototypes/http"
	protorepo "github.com/campuslaunch/campus-launch-backend/internal/prototypes/repository"
	protosvc "github.com/campuslaunch/campus-launch-backend/internal/prototypes/service"
	"github.com/campuslaunch/campus-launch-backend/internal/session"
	"github.com/campuslaunch/campus-launch-backend/internal/uploads"
	uploadshttp "github.com/campuslaunch/campus-launch-backend/internal/uploads/http"
	usershttp "github.com/campuslaunch/campus-launch-backend/internal/users/http"
	usersrepo "github.com/campuslaunch/campus-launch-backend/internal/users/repository"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string

	Store     docstore.Store
	Sessions  session.Store
	Resolver  *identity.Resolver
	Recorder  audit.Recorder
	AuditDB   *pgxpool.Pool
	Presigner *uploads.Presigner

	Log zerolog.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log))

	origins := dep.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.AuditDB)
	healthHandler.RegisterRoutes(r)

	userRepo := usersrepo.NewRepository(dep.Store)
	projectRepo := projectsrepo.NewRepository(dep.Store)
	hackRepo := hackrepo.NewRepository(dep.Store)
	protoRepo := protorepo.NewRepository(dep.Store)
	courseRepo := coursesrepo.NewRepository(dep.Store)
	messageRepo := msgrepo.NewRepository(dep.Store)

	projectSvc := projectssvc.NewProjectService(projectRepo, userRepo, dep.Recorder, dep.Resolver, dep.Log)
	hackSvc := hacksvc.NewHackathonService(hackRepo, dep.Recorder, dep.Log)
	protoSvc := protosvc.NewPrototypeService(protoRepo, messageRepo, dep.Log)
	courseSvc := coursessvc.NewCourseService(courseRepo, userRepo, dep.Resolver, dep.Log)

	authHandler := authhttp.NewHandler(dep.Sessions, userRepo, dep.Resolver, dep.Log)

	// Credential endpoints are rate limited per client IP; everything
	// behind the session guard is not.
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimit(rate.Limit(5), 10))
	authHandler.Register(authGroup)

	api := r.Group("/api/v1")
	api.Use(guard.RequireSession(dep.Sessions, dep.Resolver))

	authHandler.RegisterProtected(api.Group("/auth"))

	invalidate := func(c *gin.Context, uid string) {
		dep.Resolver.InvalidateProfile(c.Request.Context(), uid)
	}
	usershttp.NewHandler(userRepo, invalidate).Register(api.Group("/profile"))

	projectshttp.NewHandler(projectSvc).Register(api.Group("/projects"))
	hackhttp.NewHandler(hackSvc).Register(api.Group("/hackathons"))
	protohttp.NewHandler(protoSvc).Register(api.Group("/prototypes"))
	courseshttp.NewHandler(courseSvc).Register(api.Group("/courses"))

	if dep.Presigner != nil {
		uploadshttp.NewHandler(dep.Presigner, dep.Log).Register(api.Group("/uploads"))
	}

	return r
}
