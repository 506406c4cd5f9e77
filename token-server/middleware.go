package main

import (
	"github.com/go-training/shopify-token-store/pkg/core"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware tags each request context with a request ID, reusing
// the caller's X-Request-ID when present, and echoes it in the response.
func requestIDMiddleware(c *gin.Context) {
	reqID := c.GetHeader(requestIDHeader)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	c.Request = c.Request.WithContext(core.WithRequestIDValue(c.Request.Context(), reqID))
	c.Header(requestIDHeader, reqID)
	c.Next()
}
