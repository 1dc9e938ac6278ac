// Package server exposes the application over HTTP: a small JSON API
// for the household UI, the browser runtime config script, and
// prometheus metrics.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mquinn/chorewheel/internal/auth"
	"github.com/mquinn/chorewheel/internal/config"
	"github.com/mquinn/chorewheel/internal/models"
	"github.com/mquinn/chorewheel/internal/rotation"
	"github.com/mquinn/chorewheel/internal/service"
)

// Version is reported by /healthz.
const Version = "1.2.0"

// Server wires the service and grant manager into gin handlers.
type Server struct {
	svc     *service.Service
	grants  *auth.GrantManager
	runtime config.Runtime
}

// New creates a Server.
func New(svc *service.Service, grants *auth.GrantManager, runtime config.Runtime) *Server {
	registerValidations()
	return &Server{svc: svc, grants: grants, runtime: runtime}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), observeRequests(), cors())

	r.GET("/healthz", s.health)
	r.GET("/metrics", metricsHandler())
	r.GET("/config.js", s.configJS)

	api := r.Group("/api")
	{
		api.GET("/state", s.getState)
		api.PUT("/roster", s.putRoster)
		api.POST("/queue/reorder", s.reorderQueue)
		api.POST("/participants/:name/pause", s.togglePause)
		api.PUT("/participants/:name/pin", s.putPIN)
		api.POST("/authorize", s.authorize)
		api.POST("/loads", s.completeLoad)
		api.POST("/loads/claim", s.claimLoad)
		api.POST("/credits/reset", s.resetCredits)
	}
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"name": "chorewheel", "version": Version})
}

// configJS serves the browser runtime configuration as a script, the
// seam for a future remote-sync backend. The core never reads it.
func (s *Server) configJS(c *gin.Context) {
	body, err := json.Marshal(s.runtime)
	if err != nil {
		c.String(http.StatusInternalServerError, "// config unavailable\n")
		return
	}
	c.Header("Content-Type", "application/javascript")
	c.String(http.StatusOK, "window.CHOREWHEEL_CONFIG = %s;\n", body)
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Snapshot())
}

func (s *Server) putRoster(c *gin.Context) {
	var req rosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respondMutation(c, s.svc.SetRoster(c.Request.Context(), req.Names))
}

func (s *Server) reorderQueue(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respondMutation(c, s.svc.Reorder(c.Request.Context(), *req.From, *req.To))
}

func (s *Server) togglePause(c *gin.Context) {
	s.respondMutation(c, s.svc.TogglePause(c.Request.Context(), c.Param("name")))
}

func (s *Server) putPIN(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respondMutation(c, s.svc.SetPIN(c.Request.Context(), c.Param("name"), req.PIN))
}

// authorize is phase one of the two-phase completion flow: verify a PIN
// and hand back a short-lived grant for the requested role.
func (s *Server) authorize(c *gin.Context) {
	var req authorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.svc.Authorize(req.Name, req.PIN); err != nil {
		s.writeError(c, err)
		return
	}
	grant, err := s.grants.Issue(req.Name, role)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grant": grant, "name": req.Name, "role": role})
}

// completeLoad is phase two: commit a completed load. Each identity is
// established by a grant or by an inline PIN; nothing is recorded until
// both checks pass.
func (s *Server) completeLoad(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind := models.Kind(req.Kind)

	ranBy, err := s.establish(req.RunGrant, auth.RoleRun, req.RanBy, req.RunPIN, "")
	if err != nil {
		s.writeError(c, err)
		return
	}
	unloadedBy, err := s.establish(req.UnloadGrant, auth.RoleUnload, req.UnloadedBy, req.UnloadPIN, ranBy)
	if err != nil {
		s.writeError(c, err)
		return
	}

	entry, err := s.svc.CompleteLoadAuthorized(c.Request.Context(), kind, ranBy, unloadedBy)
	s.respondCompletion(c, entry, err)
}

// establish resolves and authorizes one identity of a completion. With
// a grant the identity is taken from the token; otherwise the claimed
// name (defaulting to fallback, then to the queue head) must pass its
// PIN check.
func (s *Server) establish(grant string, role auth.Role, claimed, pin, fallback string) (string, error) {
	if grant != "" {
		return s.grants.Verify(grant, role)
	}
	name := claimed
	if name == "" {
		name = fallback
	}
	if name == "" {
		name = s.svc.DefaultRunner()
	}
	if err := s.svc.Authorize(name, pin); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Server) claimLoad(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind := models.Kind(req.Kind)
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var entry models.Entry
	if req.Grant != "" {
		name, err := s.grants.Verify(req.Grant, role)
		if err != nil {
			s.writeError(c, err)
			return
		}
		entry, err = s.svc.QuickClaimAuthorized(c.Request.Context(), kind, role, name)
		s.respondCompletion(c, entry, err)
		return
	}

	name := req.Name
	if name == "" {
		name = s.svc.DefaultRunner()
	}
	entry, err = s.svc.QuickClaim(c.Request.Context(), kind, role, name, req.PIN)
	s.respondCompletion(c, entry, err)
}

func (s *Server) resetCredits(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respondMutation(c, s.svc.ResetCredits(c.Request.Context(), req.Confirm))
}

// respondMutation answers a state mutation: the fresh snapshot on
// success, the mapped error otherwise. A persistence failure still
// returns the snapshot (the in-memory change committed) plus a warning.
func (s *Server) respondMutation(c *gin.Context, err error) {
	if err != nil && !errors.Is(err, service.ErrPersistence) {
		s.writeError(c, err)
		return
	}
	resp := gin.H{"state": s.svc.Snapshot()}
	if err != nil {
		resp["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) respondCompletion(c *gin.Context, entry models.Entry, err error) {
	if err != nil && !errors.Is(err, service.ErrPersistence) {
		s.writeError(c, err)
		return
	}
	loadsCompleted.WithLabelValues(string(entry.Kind)).Inc()
	resp := gin.H{"entry": entry, "state": s.svc.Snapshot()}
	if err != nil {
		resp["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, rotation.ErrEmptyRoster),
		errors.Is(err, rotation.ErrIndexOutOfRange),
		errors.Is(err, auth.ErrInvalidPIN),
		errors.Is(err, service.ErrConfirmationRequired):
		status = http.StatusBadRequest
	case errors.Is(err, rotation.ErrUnknownParticipant):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrPINMismatch), errors.Is(err, auth.ErrInvalidGrant):
		status = http.StatusForbidden
		authDenied.Inc()
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
