package security

import (
	"time"

	"github.com/gin-gonic/gin"
)

const contextKey = "security_context"

// Context carries the per-request security identity attached by the
// pipeline once every check has passed.
type Context struct {
	UserID    string            `json:"user_id"`
	IPAddress string            `json:"ip_address"`
	Timestamp time.Time         `json:"timestamp"`
	SessionID string            `json:"session_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// SetContext attaches the security context to a gin request.
func SetContext(c *gin.Context, sc Context) {
	c.Set(contextKey, sc)
}

// GetContext returns the security context attached by the pipeline. The
// second return is false on routes that bypass the pipeline.
func GetContext(c *gin.Context) (Context, bool) {
	value, ok := c.Get(contextKey)
	if !ok {
		return Context{}, false
	}
	sc, ok := value.(Context)
	return sc, ok
}
