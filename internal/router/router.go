package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/config"
	"github.com/ikkim/fictionhub-backend/internal/app/controller"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers 라우트에 연결되는 핸들러 묶음
type Controllers struct {
	Auth     *controller.AuthController
	Book     *controller.BookController
	Chapter  *controller.ChapterController
	Comment  *controller.CommentController
	Review   *controller.ReviewController
	Taxonomy *controller.TaxonomyController
	Progress *controller.ProgressController
	Upload   *controller.UploadController
	Feed     *controller.FeedController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(controllers Controllers, authMiddleware *middleware.AuthMiddleware, cfg *config.Config) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)
	controller.RegisterValidators()

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(cors.New(corsConfig(r.config.CORS.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "FictionHub API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ctl := r.controllers
	authenticate := r.authMiddleware.Authenticate()
	optionalAuth := r.authMiddleware.OptionalAuthenticate()
	publishers := r.authMiddleware.RequireRole(model.RoleAuthor, model.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", ctl.Auth.Register)
			auth.POST("/login", ctl.Auth.Login)
			auth.POST("/logout", authenticate, ctl.Auth.Logout)
			auth.GET("/me", authenticate, ctl.Auth.GetMe)
			auth.PUT("/me", authenticate, ctl.Auth.UpdateMe)
		}

		books := v1.Group("/books")
		{
			books.GET("", ctl.Book.Browse)
			books.GET("/:id", ctl.Book.GetBook)
			books.POST("", authenticate, publishers, ctl.Book.CreateBook)
			books.PUT("/:id", authenticate, ctl.Book.UpdateBook)
			books.DELETE("/:id", authenticate, ctl.Book.DeleteBook)

			books.GET("/:id/chapters", ctl.Chapter.ListChapters)
			books.POST("/:id/chapters", authenticate, ctl.Chapter.CreateChapter)
			books.GET("/:id/arcs", ctl.Chapter.ListArcs)
			books.POST("/:id/arcs", authenticate, ctl.Chapter.CreateArc)

			books.GET("/:id/reviews", optionalAuth, ctl.Review.ListReviews)
			books.PUT("/:id/reviews", authenticate, ctl.Review.UpsertReview)
		}

		chapters := v1.Group("/chapters")
		{
			chapters.GET("/:id", ctl.Chapter.GetChapter)
			chapters.PUT("/:id", authenticate, ctl.Chapter.UpdateChapter)
			chapters.DELETE("/:id", authenticate, ctl.Chapter.DeleteChapter)

			chapters.GET("/:id/comments", optionalAuth, ctl.Comment.ListComments)
			chapters.POST("/:id/comments", authenticate, ctl.Comment.CreateComment)
		}

		comments := v1.Group("/comments", authenticate)
		{
			comments.PUT("/:id", ctl.Comment.UpdateComment)
			comments.DELETE("/:id", ctl.Comment.DeleteComment)
			comments.POST("/:id/reactions", ctl.Comment.ReactToComment)
		}

		reviews := v1.Group("/reviews", authenticate)
		{
			reviews.DELETE("/:id", ctl.Review.DeleteReview)
			reviews.POST("/:id/reactions", ctl.Review.ReactToReview)
			reviews.POST("/:id/replies", ctl.Review.CreateReply)
		}

		replies := v1.Group("/replies", authenticate)
		{
			replies.PUT("/:id", ctl.Review.UpdateReply)
			replies.DELETE("/:id", ctl.Review.DeleteReply)
			replies.POST("/:id/reactions", ctl.Review.ReactToReply)
		}

		v1.GET("/genres", ctl.Taxonomy.ListGenres)
		v1.GET("/tags", ctl.Taxonomy.ListTags)
		v1.GET("/trends", ctl.Taxonomy.ListTrends)

		me := v1.Group("/me", authenticate)
		{
			me.GET("/progress", ctl.Progress.ListProgress)
			me.PUT("/progress/:bookId", ctl.Progress.SaveProgress)
		}

		v1.POST("/upload/cover", authenticate, publishers, ctl.Upload.PresignCover)

		// 브라우저 WebSocket 은 헤더를 못 붙이므로 ?token= 허용
		v1.GET("/ws/chapters/:id", optionalAuth, ctl.Feed.ChapterFeed)

		admin := v1.Group("/admin", authenticate, r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			admin.DELETE("/books/:id", ctl.Book.HardDeleteBook)

			admin.POST("/genres", ctl.Taxonomy.CreateGenre)
			admin.PUT("/genres/:id", ctl.Taxonomy.UpdateGenre)
			admin.DELETE("/genres/:id", ctl.Taxonomy.DeleteGenre)

			admin.POST("/tags", ctl.Taxonomy.CreateTag)
			admin.PUT("/tags/:id", ctl.Taxonomy.UpdateTag)
			admin.DELETE("/tags/:id", ctl.Taxonomy.DeleteTag)

			admin.POST("/trends", ctl.Taxonomy.CreateTrend)
			admin.PUT("/trends/:id", ctl.Taxonomy.UpdateTrend)
			admin.DELETE("/trends/:id", ctl.Taxonomy.DeleteTrend)
			admin.POST("/trends/:id/books/:bookId", ctl.Taxonomy.AddBookToTrend)
			admin.DELETE("/trends/:id/books/:bookId", ctl.Taxonomy.RemoveBookFromTrend)
		}
	}

	return router
}

// corsConfig 빈 목록 또는 "*" 는 모든 origin 허용
func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour

	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	return cfg
}
