package api

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed panel.html
var panelHTML []byte

// Panel serves the embedded control panel.
func Panel(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", panelHTML)
}
