package handler

import "github.com/gin-gonic/gin"

// currentUserID returns the authenticated user's ID set by the auth middleware
func currentUserID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	id, _ := userID.(string)
	return id
}

// currentUserName returns a printable operator name for rendered documents
func currentUserName(c *gin.Context) string {
	if name, ok := c.Get("userName"); ok {
		if s, ok := name.(string); ok && s != "" {
			return s
		}
	}
	return currentUserID(c)
}
