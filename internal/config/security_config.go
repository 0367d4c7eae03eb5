// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps "METHOD /path-template" to the required
// security level. Path templates are the gorilla/mux route templates.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"POST /api/v1/auth/signup":  SecurityPublic,
	"POST /api/v1/auth/signin":  SecurityPublic,
	"POST /api/v1/auth/signout": SecurityPublic,
	"GET /api/v1/health":        SecurityPublic,
	"GET /invite/redirect":      SecurityPublic,

	// Auth - Access Protected
	"GET /api/v1/auth/me": SecurityAccess,

	// Projects
	"POST /api/v1/projects":     SecurityAccess,
	"GET /api/v1/projects":      SecurityAccess,
	"GET /api/v1/projects/{id}": SecurityAccess,

	// Current user
	"GET /api/v1/user/dashboard": SecurityAccess,
	"GET /api/v1/user/projects":  SecurityAccess,
	"GET /api/v1/user/tasks":     SecurityAccess,
	"POST /api/v1/users/exists":  SecurityAccess,

	// Tasks
	"POST /api/v1/tasks":       SecurityAccess,
	"GET /api/v1/tasks":        SecurityAccess,
	"GET /api/v1/tasks/{id}":   SecurityAccess,
	"PATCH /api/v1/tasks/{id}": SecurityAccess,
	"PUT /api/v1/tasks/{id}":   SecurityAccess,

	// Invites
	"POST /api/v1/invites":             SecurityAccess,
	"GET /api/v1/invites":              SecurityAccess,
	"POST /api/v1/invites/accept":      SecurityAccess,
	"DELETE /api/v1/invites/{id}":      SecurityAccess,
	"POST /api/v1/invites/{id}/resend": SecurityAccess,

	// Notifications
	"GET /api/v1/notifications":         SecurityAccess,
	"POST /api/v1/notifications":        SecurityAccess,
	"PATCH /api/v1/notifications/{id}":  SecurityAccess,
	"DELETE /api/v1/notifications/{id}": SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route
func GetSecurityLevel(method, pathTemplate string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method+" "+pathTemplate]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
