// Package dashboard serves the static single-page dashboard. It is pure
// presentation: the page polls the JSON API and renders client-side, so the
// server ships one embedded HTML file and no templating.
package dashboard

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed dashboard.html
var page []byte

// RegisterRoutes mounts the dashboard page on the given router.
func RegisterRoutes(r gin.IRouter) {
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
}
