package api

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticFiles serves the web client from dir. Unknown /api/ paths and
// missing files get a 404.
func StaticFiles(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || dir == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusMethodNotAllowed)
			return
		}

		if path == "/" {
			path = "/index.html"
		}
		fullPath := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path)))
		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			log.Printf("Static file not found: %s", fullPath)
			c.Status(http.StatusNotFound)
			return
		}
		c.File(fullPath)
	}
}
