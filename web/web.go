// Package web provides the web server of the panel: HTTP serving,
// routing, session wiring, templates, and background job scheduling.
package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"time"

	"userpanel/config"
	"userpanel/database/model"
	"userpanel/logger"
	"userpanel/web/controller"
	"userpanel/web/job"
	"userpanel/web/middleware"
	"userpanel/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed assets
var assetsFS embed.FS

//go:embed html/*
var htmlFS embed.FS

var startTime = time.Now()

type wrapAssetsFS struct {
	embed.FS
}

func (f *wrapAssetsFS) Open(name string) (fs.File, error) {
	file, err := f.FS.Open("assets/" + name)
	if err != nil {
		return nil, err
	}
	return &wrapAssetsFile{File: file}, nil
}

type wrapAssetsFile struct {
	fs.File
}

func (f *wrapAssetsFile) Stat() (fs.FileInfo, error) {
	info, err := f.File.Stat()
	if err != nil {
		return nil, err
	}
	return &wrapAssetsFileInfo{FileInfo: info}, nil
}

type wrapAssetsFileInfo struct {
	fs.FileInfo
}

func (f *wrapAssetsFileInfo) ModTime() time.Time {
	return startTime
}

// Server is the web server of the panel with its controllers and
// scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	public    *controller.PublicController
	auth      *controller.AuthController
	twoFactor *controller.TwoFactorController
	account   *controller.AccountController
	admin     *controller.AdminController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// getHtmlTemplate parses the embedded HTML templates.
func (s *Server) getHtmlTemplate() (*template.Template, error) {
	return template.New("").ParseFS(htmlFS, "html/*.html")
}

// initRouter initializes Gin, registers middleware, templates, static
// assets, and controllers, and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	// Sessions live server-side in process memory; the browser only holds
	// a signed token. Restarting the process logs everyone out.
	store := memstore.NewStore([]byte(config.GetSessionSecret()))
	engine.Use(sessions.Sessions(session.CookieName, store))

	tpl, err := s.getHtmlTemplate()
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tpl)
	engine.StaticFS("/assets", http.FS(&wrapAssetsFS{FS: assetsFS}))

	// Uploaded profile pictures live on disk, not in the binary.
	uploadFolder := config.GetUploadFolderPath()
	engine.Static("/uploads", uploadFolder)

	// Public surface: index, registration, login, and the JSON endpoints
	// that degrade to guest values without a session.
	g := engine.Group("/")
	s.public = controller.NewPublicController(g)
	s.auth = controller.NewAuthController(g)

	// Anything past here needs a session. Two-factor routes stay
	// reachable while the session is still pending verification.
	authed := g.Group("/", middleware.RequireLogin())
	s.twoFactor = controller.NewTwoFactorController(authed)

	protected := authed.Group("/", middleware.RequireTwoFactor())
	s.account = controller.NewAccountController(protected, uploadFolder)

	adminGroup := protected.Group("/", middleware.RequireRole(model.RoleAdmin))
	s.admin = controller.NewAdminController(adminGroup)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the background maintenance jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@daily", job.NewPruneUploadsJob(config.GetUploadFolderPath()))
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.startTask()

	s.httpServer = &http.Server{
		Handler: engine,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server err:", err)
		}
	}()

	logger.Infof("web server running on %s", listenAddr)
	return nil
}

// Stop shuts down the web server and its scheduled jobs.
func (s *Server) Stop() error {
	s.cancel()

	if s.cron != nil {
		s.cron.Stop()
	}

	var err error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		// Shutdown already closed the listener; this is a no-op then.
		_ = s.listener.Close()
	}
	return err
}
