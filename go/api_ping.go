package dogshouseserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultApplicationName = "Appservice"
	DefaultVersion         = "1.0.0"
)

// PingAPI reports the configured application name and version.
type PingAPI struct {
	banner string
}

// NewPingAPI builds the ping handler. Blank values fall back to the defaults.
func NewPingAPI(applicationName, version string) PingAPI {
	if strings.TrimSpace(applicationName) == "" {
		applicationName = DefaultApplicationName
	}
	if strings.TrimSpace(version) == "" {
		version = DefaultVersion
	}
	return PingAPI{banner: applicationName + ".Version" + version}
}

// Get /Ping
func (api *PingAPI) Ping(c *gin.Context) {
	c.String(http.StatusOK, api.banner)
}
