package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kuomat/penn-labs/config"
	"github.com/kuomat/penn-labs/internal/api/handler"
	"github.com/kuomat/penn-labs/internal/api/middleware"
	"github.com/kuomat/penn-labs/pkg/redis"
	"github.com/kuomat/penn-labs/pkg/response"
	"github.com/kuomat/penn-labs/pkg/session"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时登录限流退化为进程内 localLimiter
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	sessions *session.Manager,
	rdb *redis.Client,
	localLimiter *middleware.IPRateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders(cfg.Auth.Cookie.Secure))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(middleware.Session(sessions, cfg.Auth.Cookie.Name, logger))

	// ── 欢迎页 / 健康检查 / 指标 ──
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to Penn Club Review!")
	})
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if rdb != nil {
			body["redis"] = "ok"
			if err := rdb.Ping(c.Request.Context()); err != nil {
				body["redis"] = "unavailable"
			}
		}
		c.JSON(http.StatusOK, body)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ── 认证 ──
	loginLimit := middleware.RateLimit(rdb, localLimiter, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger)
	r.POST("/signup", h.Auth.Signup)
	r.POST("/login", middleware.AnonymousOnly(), loginLimit, h.Auth.Login)
	r.POST("/logout", middleware.LoginRequired(), h.Auth.Logout)

	api := r.Group("/api")
	{
		api.GET("", func(c *gin.Context) {
			response.OK(c, gin.H{"message": "Welcome to the Penn Club Review API!"})
		})

		auth := middleware.LoginRequired()

		// 社团模块
		clubs := api.Group("/clubs")
		{
			clubs.GET("", h.Club.ListClubs)
			clubs.GET("/:name", h.Club.SearchClubs)
			clubs.POST("/new", auth, h.Club.CreateClub)
			clubs.POST("/fav/:name", auth, h.Club.FavoriteClub)
			clubs.PUT("/mod/:name", auth, h.Club.ModifyClub)
			clubs.POST("/join/:name", auth, h.Club.JoinClub)
			clubs.DELETE("/:name", auth, h.Club.DeleteClub)

			// 文件（无需登录）
			clubs.PUT("/:name/files/*path", h.File.Upload)
			clubs.GET("/:name/files/*path", h.File.Download)

			// 评论
			clubs.GET("/:name/comments", h.Comment.ListComments)
			clubs.POST("/:name/comments", auth, h.Comment.CreateComment)
			clubs.GET("/comments/:id", auth, h.Comment.GetComment)
			clubs.PUT("/comments/:id", auth, h.Comment.UpdateComment)
			clubs.DELETE("/comments/:id", auth, h.Comment.DeleteComment)
			clubs.POST("/comments/:id/reply", auth, h.Comment.ReplyComment)
		}

		// 标签模块
		tags := api.Group("/tags")
		{
			tags.GET("/count", h.Tag.CountTags)
			tags.GET("/:tag/names", h.Tag.ClubNames)
		}

		api.GET("/users/:username", h.User.GetUser)
		api.GET("/export/clubs", h.Export.ExportClubs)
	}

	return r
}
