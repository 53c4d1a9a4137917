package app

import (
	"fmt"
	"time"

	"github.com/pypanta/blog-comments-api/app/comment"
	"github.com/pypanta/blog-comments-api/app/contact"
	"github.com/pypanta/blog-comments-api/app/root"
	"github.com/pypanta/blog-comments-api/app/user"
	"github.com/pypanta/blog-comments-api/db"
	"github.com/pypanta/blog-comments-api/internal"
	"github.com/pypanta/blog-comments-api/pkg/middleware"
	"github.com/pypanta/blog-comments-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultMaxBodySize = 1 << 20

// Options are the router settings that don't belong to a handler
type Options struct {
	CORSOrigins      []string
	CommentsCacheTTL time.Duration
	MaxBodySize      int64
	Turnstile        middleware.TurnstileConfig
}

// NewRouter opens the database and wires everything from the loaded config
func NewRouter() (*gin.Engine, *internal.Deps, error) {
	makeLogger(viper.GetString("app.log_level"))

	conn, err := db.New(viper.GetString("database.driver"), viper.GetString("database.dsn"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	d := internal.NewDeps(conn, security.New(), internal.SessionConfig{
		Secret:     viper.GetString("jwt.secret"),
		AccessTTL:  viper.GetDuration("jwt.access_ttl"),
		RefreshTTL: viper.GetDuration("jwt.refresh_ttl"),
		Cookies: security.CookieOpts{
			Secure:      viper.GetBool("cookie.secure"),
			Partitioned: viper.GetBool("cookie.partitioned"),
		},
	})

	router := NewEngine(d, Options{
		CORSOrigins:      viper.GetStringSlice("host.cors_origins"),
		CommentsCacheTTL: viper.GetDuration("cache.comments_ttl"),
		MaxBodySize:      viper.GetInt64("host.max_body_size"),
		Turnstile: middleware.TurnstileConfig{
			Enabled: viper.GetBool("cloudflare.turnstile.enabled"),
			Secret:  viper.GetString("cloudflare.turnstile.secret_token"),
		},
	})

	return router, d, nil
}

// NewEngine registers every route on a fresh gin engine
func NewEngine(d *internal.Deps, o Options) *gin.Engine {
	if o.MaxBodySize <= 0 {
		o.MaxBodySize = defaultMaxBodySize
	}

	router := gin.New()

	if len(o.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     o.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.Use(
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString(middleware.UserIDKey); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true

	jwt := middleware.NewSessionMiddleware(d.Tokens, d.Accounts)
	maybeJWT := middleware.NewOptionalSessionMiddleware(d.Tokens, d.Accounts)
	admin := middleware.RequireAdmin()
	turnstile := middleware.NewTurnstileMiddleware(o.Turnstile)

	// HEAD /heartbeat			-> Used to check if the server and database are alive
	router.HEAD("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })

	m := router.Group("", middleware.BodySizeLimiter(o.MaxBodySize))

	u := m.Group("")
	{
		// POST /register		-> Registers a new user
		u.POST("/register", turnstile, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /login			-> Sets the access and refresh cookies
		u.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// GET /logout			-> Clears both session cookies
		u.GET("/logout", jwt, func(c *gin.Context) { user.UserLogout(c, d) })

		// GET /user			-> Returns the profile of the logged in user
		u.GET("/user", jwt, user.UserFetch)

		// PATCH /user-update		-> Overwrites the profile, new cookies on email change
		u.PATCH("/user-update", jwt, func(c *gin.Context) { user.UserUpdate(c, d) })

		// GET /refresh			-> Trades the refresh cookie for a new access cookie
		u.GET(security.RefreshPath, func(c *gin.Context) { user.UserRefresh(c, d) })
	}

	ct := m.Group("")
	{
		// POST /new-contact		-> Stores a contact form message
		ct.POST("/new-contact", turnstile, func(c *gin.Context) { contact.ContactCreate(c, d) })

		// GET /contacts		-> Lists unread messages (admin)
		ct.GET("/contacts", jwt, admin, func(c *gin.Context) { contact.ContactList(c, d) })

		// PATCH /read-contact/:id	-> Marks a message as read (admin)
		ct.PATCH("/read-contact/:id", jwt, admin, func(c *gin.Context) { contact.ContactMarkRead(c, d) })

		// DELETE /delete-contact/:id	-> Deletes a message (admin)
		ct.DELETE("/delete-contact/:id", jwt, admin, func(c *gin.Context) { contact.ContactDelete(c, d) })
	}

	cm := m.Group("")
	{
		// GET /			-> Returns the threads of every post
		cm.GET("/", jwt, func(c *gin.Context) { comment.CommentList(c, d) })

		// POST /new			-> Creates a comment, anonymous unless logged in
		cm.POST("/new", turnstile, maybeJWT, func(c *gin.Context) { comment.CommentCreate(c, d) })

		// GET /:post_id		-> Returns the threads of a post
		cm.GET("/:post_id", append(cacheFor(o.CommentsCacheTTL), func(c *gin.Context) { comment.PostComments(c, d) })...)

		// PUT /:comment_id/update	-> Edits a comment (owner or admin)
		cm.PUT("/:comment_id/update", jwt, func(c *gin.Context) { comment.CommentUpdate(c, d) })

		// DELETE /:comment_id/delete	-> Deletes a comment thread (owner or admin)
		cm.DELETE("/:comment_id/delete", jwt, func(c *gin.Context) { comment.CommentDelete(c, d) })
	}

	return router
}

var store = persist.NewMemoryStore(time.Minute)

// cacheFor is a no-op for ttl <= 0
func cacheFor(ttl time.Duration) []gin.HandlerFunc {
	if ttl <= 0 {
		return nil
	}

	return []gin.HandlerFunc{cache.CacheByRequestURI(store, ttl)}
}
