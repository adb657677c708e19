package http

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/gamearena/wakegate/config"
	"github.com/gamearena/wakegate/core"
	"github.com/gamearena/wakegate/service"
)

// GatewayHandlers contains the HTTP handlers for the gateway surface.
type GatewayHandlers struct {
	svc *service.GatewayService
	cfg *config.Config
}

// NewGatewayHandlers creates the handler set.
func NewGatewayHandlers(svc *service.GatewayService, cfg *config.Config) *GatewayHandlers {
	return &GatewayHandlers{svc: svc, cfg: cfg}
}

// Root evaluates the redirect policy: redirect when the target serves or at
// least answers ping, otherwise attempt a wake and show the waiting page.
// Configuration problems render an explanatory page, never a raw error code.
func (h *GatewayHandlers) Root(c *gin.Context) {
	decision := h.svc.Decide(c.Request.Context())

	switch decision.Kind {
	case core.DecisionRedirect:
		c.Redirect(http.StatusFound, decision.URL)

	case core.DecisionWait:
		wakeDetail := ""
		if decision.WakeErr != nil {
			wakeDetail = decision.WakeErr.Error()
		}
		c.HTML(http.StatusOK, "waiting.html", gin.H{
			"Name":      decision.Machine.Name,
			"MAC":       decision.Machine.MAC,
			"IP":        decision.Machine.IP,
			"URL":       h.cfg.Gateway.Target.ServiceURL,
			"MaxWait":   int(h.cfg.Gateway.MaxWait.Seconds()),
			"WakeError": wakeDetail,
		})

	case core.DecisionConfigError:
		title := "Configuration error"
		message := "The gateway cannot wake the target machine."
		details := ""
		if decision.Err != nil {
			details = decision.Err.Error()
		}
		if errors.Is(decision.Err, core.ErrNotAuthorized) {
			title = "Missing router credential"
			message = "The router credential is not configured. Run: wakegate authorize"
		} else if errors.Is(decision.Err, core.ErrMachineNotRegistered) {
			title = "Machine not registered"
			message = "The target IP has no entry in the machine registry."
		}
		c.HTML(http.StatusOK, "error.html", gin.H{
			"Title":   title,
			"Message": message,
			"Details": details,
		})
	}
}

type wakeBody struct {
	MAC string `json:"mac"`
	IP  string `json:"ip"`
}

// Wake handles POST /api/wol.
func (h *GatewayHandlers) Wake(c *gin.Context) {
	var body wakeBody
	if err := c.ShouldBindJSON(&body); err != nil || body.MAC == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "MAC address required"})
		return
	}

	if err := h.svc.WakeMAC(c.Request.Context(), body.MAC); err != nil {
		response := gin.H{"success": false, "details": err.Error()}
		switch {
		case errors.Is(err, core.ErrNotAuthorized):
			response["error"] = "Configuration not found"
		case errors.Is(err, core.ErrWakeRejected):
			response["error"] = "Failed to send WOL packet"
		default:
			response["error"] = "Freebox login failed"
		}
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "WOL packet sent",
		"mac":     body.MAC,
		"ip":      body.IP,
	})
}

// Ping handles GET /api/ping/:ip.
func (h *GatewayHandlers) Ping(c *gin.Context) {
	ip := c.Param("ip")
	c.JSON(http.StatusOK, gin.H{
		"ip":     ip,
		"online": h.svc.PingHost(c.Request.Context(), ip),
	})
}

// Machines handles GET /api/machines.
func (h *GatewayHandlers) Machines(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.MachineStatuses(c.Request.Context()))
}

// Health reports 200 when a valid credential is configured, 503 otherwise.
func (h *GatewayHandlers) Health(c *gin.Context) {
	if err := h.svc.Health(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Debug exposes deployment diagnostics. The credential content itself is
// never echoed back, only whether the file is present and usable.
func (h *GatewayHandlers) Debug(c *gin.Context) {
	workingDir, _ := os.Getwd()
	c.JSON(http.StatusOK, gin.H{
		"credential_file_path":   h.svc.CredentialPath(),
		"credential_file_exists": h.svc.CredentialExists(),
		"credential_valid":       h.svc.Health() == nil,
		"working_directory":      workingDir,
		"machines":               len(h.cfg.Machines),
		"service_url":            h.cfg.Gateway.Target.ServiceURL,
	})
}
