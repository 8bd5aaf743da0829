package transport

import (
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/ds124wfegd/adgen/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Generate *GenerateHandler
	Download *DownloadHandler
	Pages    *PageHandler

	// Per-route deadlines, zero disables them.
	GenerateTimeout time.Duration
	DownloadTimeout time.Duration
}

func InitRoutes(h Handlers, tmpl *template.Template, static fs.FS) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	router.MaxMultipartMemory = h.Generate.maxUploadBytes

	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(static))

	router.GET("/", h.Pages.Landing)
	router.GET("/create", h.Pages.Create)
	router.GET("/preview", h.Pages.Preview)

	api := router.Group("/api")
	{
		api.POST("/generate", middleware.Timeout(h.GenerateTimeout), h.Generate.Generate)
		api.GET("/download", middleware.Timeout(h.DownloadTimeout), h.Download.Download)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "adgen",
		})
	})
	return router
}
