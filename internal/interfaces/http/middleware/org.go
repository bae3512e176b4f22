package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chethandvg/tenantmanagement/internal/interfaces/http/dto"
)

// Context and header keys for organization scoping
const (
	OrgIDKey     = "org_id"
	OrgHeaderKey = "X-Org-ID"
)

// OrgContext extracts the organization ID from the X-Org-ID header and
// stores it in the request context. Requests without a valid
// organization are rejected before reaching a handler.
func OrgContext(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.FullPath()]; ok {
			c.Next()
			return
		}

		raw := c.GetHeader(OrgHeaderKey)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Missing "+OrgHeaderKey+" header"))
			return
		}
		orgID, err := uuid.Parse(raw)
		if err != nil || orgID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid "+OrgHeaderKey+" header"))
			return
		}

		c.Set(OrgIDKey, orgID)
		c.Next()
	}
}

// GetOrgID returns the organization ID stored by OrgContext
func GetOrgID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(OrgIDKey)
	if !ok {
		return uuid.Nil, false
	}
	orgID, ok := v.(uuid.UUID)
	return orgID, ok
}
