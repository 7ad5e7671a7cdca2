package middleware

import (
	"github.com/gin-gonic/gin"

	"zubaschool-backoffice/services/identity"
)

// IdentityKey is the gin context key holding the verified caller identity.
const IdentityKey = "identity"

// Auth verifies the Authorization header through the identity gate before
// any handler runs. Handlers behind it can trust the identity in context.
func Auth(gate *identity.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := gate.Authorize(c.GetHeader("Authorization"))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(IdentityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c *gin.Context) (*identity.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*identity.Identity)
	return id, ok
}
