package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// NewRelic instruments requests when an agent is configured and is a
// pass-through otherwise, so local runs need no license key.
func NewRelic(app *newrelic.Application) gin.HandlerFunc {
	if app == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return nrgin.Middleware(app)
}

// Transaction returns the request's New Relic transaction, or nil when the
// agent is disabled.
func Transaction(c *gin.Context) *newrelic.Transaction {
	return nrgin.Transaction(c)
}
