package admin

import "github.com/tiemhang/tiemhang-api/internal/provider"

// Handler serves the management API.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
