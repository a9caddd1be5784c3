package router

import (
	"fmt"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/feed"
	"yatube/internal/handlers"
	"yatube/internal/middleware"
	"yatube/internal/render"
	"yatube/internal/services"
	"yatube/internal/tracing"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const sessionName = "yatube_session"

// Setup builds the engine with sessions, templates, static files and routes.
func Setup(cfg *config.Config, db *gorm.DB, store cache.Store) (*gin.Engine, error) {
	r := gin.Default()

	renderer, err := render.LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.HTMLRender = renderer
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	cookieStore := cookie.NewStore([]byte(cfg.SessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 3600,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
	})
	r.Use(middleware.Tracing(tracing.Tracer("http")))
	r.Use(sessions.Sessions(sessionName, cookieStore))
	r.Use(middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/media/"})))

	r.Static("/static", cfg.StaticDir)
	r.Static("/media", cfg.MediaRoot)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.LoadUser(db))
	RegisterRoutes(r, cfg, db, store)
	r.NoRoute(handlers.NotFound)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, db *gorm.DB, store cache.Store) {
	media := services.NewMediaService(cfg.MediaRoot, cfg.MaxUploadBytes)
	users := services.NewUserService(db)
	groups := services.NewGroupService(db)
	follows := services.NewFollowService(db)
	posts := services.NewPostService(db, media)
	assembler := feed.NewAssembler(db, cfg.PostsPerPage)

	postHandler := handlers.NewPostHandler(posts, groups, users, follows, media, assembler, store, cfg.IndexCacheTTL)
	followHandler := handlers.NewFollowHandler(users, follows)
	authHandler := handlers.NewAuthHandler(users)
	adminHandler := handlers.NewAdminHandler(store)
	seoHandler := handlers.NewSEOHandler(posts, groups, cfg.SiteURL)

	// Public routes
	r.GET("/", postHandler.Index)
	r.GET("/group/:slug/", postHandler.GroupPosts)
	r.GET("/profile/:username/", postHandler.Profile)
	r.GET("/posts/:id/", postHandler.Detail)

	r.GET("/about/author/", handlers.AboutAuthor)
	r.GET("/about/tech/", handlers.AboutTech)

	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/feed.xml", seoHandler.RSSFeed)
	r.GET("/group/:slug/feed.xml", seoHandler.GroupRSSFeed)

	auth := r.Group("/auth")
	{
		auth.GET("/signup/", authHandler.ShowSignup)
		auth.POST("/signup/", authHandler.Signup)
		auth.GET("/login/", authHandler.ShowLogin)
		auth.POST("/login/", authHandler.Login)
		auth.GET("/logout/", authHandler.Logout)
	}

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create/", postHandler.ShowCreate)
		authorized.POST("/create/", postHandler.Create)
		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)
		authorized.POST("/posts/:id/edit/", postHandler.Edit)
		authorized.POST("/posts/:id/comment/", postHandler.AddComment)
		authorized.GET("/follow/", postHandler.FollowIndex)
		authorized.GET("/profile/:username/follow/", followHandler.Follow)
		authorized.GET("/profile/:username/unfollow/", followHandler.Unfollow)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.StaffRequired())
	{
		admin.POST("/cache/clear/", adminHandler.ClearCache)
	}
}
