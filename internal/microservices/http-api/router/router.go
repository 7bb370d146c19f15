package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Categories service.CategoryService
	Genres     service.GenreService
	Titles     service.TitleService
	Reviews    service.ReviewService
	Comments   service.CommentService
}

// Options tunes the engine.
type Options struct {
	PageSize      int
	AuthRateLimit float64
	AuthRateBurst int
	Logger        *slog.Logger
}

// New assembles the /api/v1 route tree.
func New(svc Services, users middleware.UserLoader, opts Options) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(opts.Logger))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": fmt.Sprintf("method %q not allowed", c.Request.Method)})
	})

	r.GET("/check-conn", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API is alive"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(svc.Auth, users))

	limiter := middleware.NewRateLimiter(opts.AuthRateLimit, opts.AuthRateBurst)
	handler.NewAuthHandler(svc.Auth).RegisterRoutes(api.Group("/auth", middleware.Require(permission.AllowAny), limiter.Middleware()))
	handler.NewUserHandler(svc.Users, opts.PageSize).RegisterRoutes(api.Group("/users"))
	handler.NewCategoryHandler(svc.Categories, opts.PageSize).RegisterRoutes(api.Group("/categories"))
	handler.NewGenreHandler(svc.Genres, opts.PageSize).RegisterRoutes(api.Group("/genres"))
	handler.NewTitleHandler(svc.Titles, opts.PageSize).RegisterRoutes(api.Group("/titles"))
	handler.NewReviewHandler(svc.Reviews, opts.PageSize).RegisterRoutes(api.Group("/titles/:title_id/reviews"))
	handler.NewCommentHandler(svc.Comments, opts.PageSize).RegisterRoutes(api.Group("/titles/:title_id/reviews/:review_id/comments"))

	return r, nil
}

// registerValidators installs the custom binding tags on gin's validator and
// reports field errors under their JSON names.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return dto.RegisterValidators(v)
}
