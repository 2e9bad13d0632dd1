package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/bundle_wallet_app/internal/utils"
	"github.com/gin-gonic/gin"
)

const posthogClientKey = "posthogClient"

// untrackedPaths are never reported as route events.
var untrackedPaths = map[string]bool{
	"/health":            true,
	"/webhooks/paystack": true,
}

// PosthogMiddleware reports one event per successful authenticated request and
// exposes the client to handlers through TrackEvent.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() {
			c.Next()
			return
		}
		c.Set(posthogClientKey, posthogClient)
		c.Next()

		if untrackedPaths[c.Request.URL.Path] || len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		// "/api/v1/wallet/entries/:entry_id" -> "api_v1_wallet_entries_entry_id"
		name := strings.NewReplacer("/", "_", ":", "").Replace(strings.TrimPrefix(c.FullPath(), "/"))
		if name == "" {
			return
		}
		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, p := range c.Params {
				params[p.Key] = p.Value
			}
			props["params"] = params
		}
		posthogClient.Enqueue(userID, name, props)
	}
}

// TrackEvent sends a business event for the authenticated caller. It is a no-op
// when analytics is off or the request is anonymous.
func TrackEvent(c *gin.Context, event string, properties map[string]any) {
	v, ok := c.Get(posthogClientKey)
	if !ok {
		return
	}
	client, ok := v.(*utils.PosthogClientWrapper)
	if !ok || !client.IsInitialized() {
		return
	}
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["path"] = c.Request.URL.Path
	client.Enqueue(userID, event, properties)
}
