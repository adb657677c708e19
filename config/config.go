package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/gamearena/wakegate/core"
)

// Defaults matching the reference deployment.
const (
	DefaultFreeboxURL = "http://mafreebox.freebox.fr"
	DefaultTokenFile  = ".freebox_token"
)

// Target describes the downstream service the gateway fronts.
type Target struct {
	// ServiceURL is where the browser is redirected once the machine serves.
	ServiceURL string `yaml:"service_url"`
	// HostIP, when set, is probed instead of the URL's hostname. Useful when
	// the public URL resolves outside the LAN but the gateway sits inside it.
	HostIP string `yaml:"host_ip"`

	// Host and Port are parsed out of ServiceURL at load time.
	Host string `yaml:"-"`
	Port int    `yaml:"-"`
}

// ProbeHost returns the address reachability checks should use.
func (t Target) ProbeHost() string {
	if t.HostIP != "" {
		return t.HostIP
	}
	return t.Host
}

// Config is built once at startup and passed by reference to every
// component. No component reads the process environment directly.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"` // listen address, default :5001
	} `yaml:"server"`

	Freebox struct {
		URL       string        `yaml:"url"`        // router base URL
		TokenFile string        `yaml:"token_file"` // credential file path
		Timeout   time.Duration `yaml:"timeout"`    // HTTP request timeout
	} `yaml:"freebox"`

	App struct {
		ID         string `yaml:"id"`
		Name       string `yaml:"name"`
		Version    string `yaml:"version"`
		DeviceName string `yaml:"device_name"`
	} `yaml:"app"`

	Gateway struct {
		Target       Target        `yaml:",inline"`
		MaxWait      time.Duration `yaml:"max_wait"`      // waiting page budget
		ProbeTimeout time.Duration `yaml:"probe_timeout"` // per reachability probe
	} `yaml:"gateway"`

	Auth struct {
		PollInterval time.Duration `yaml:"poll_interval"` // between approval polls
		PollAttempts int           `yaml:"poll_attempts"` // approval poll budget
	} `yaml:"auth"`

	Web struct {
		Templates string `yaml:"templates"` // glob for HTML templates
		Static    string `yaml:"static"`    // static assets directory
	} `yaml:"web"`

	Machines map[string]core.Machine `yaml:"machines"`
}

// Load reads the YAML config at path, applies .env / environment overrides
// and fills in defaults. The returned config is complete and validated.
func Load(path string, log zerolog.Logger) (*Config, error) {
	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded environment from .env")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	for id, machine := range cfg.Machines {
		machine.ID = id
		cfg.Machines[id] = machine
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}

	log.Info().
		Str("config", path).
		Str("freebox_url", cfg.Freebox.URL).
		Str("service_url", cfg.Gateway.Target.ServiceURL).
		Int("machines", len(cfg.Machines)).
		Msg("configuration loaded")

	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FREEBOX_TOKEN_FILE"); v != "" {
		c.Freebox.TokenFile = v
	}
	if v := os.Getenv("FREEBOX_URL"); v != "" {
		c.Freebox.URL = v
	}
	if v := os.Getenv("WAKEGATE_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5001"
	}
	if c.Freebox.URL == "" {
		c.Freebox.URL = DefaultFreeboxURL
	}
	if c.Freebox.TokenFile == "" {
		c.Freebox.TokenFile = DefaultTokenFile
	}
	if c.Freebox.Timeout == 0 {
		c.Freebox.Timeout = 10 * time.Second
	}
	if c.Gateway.MaxWait == 0 {
		c.Gateway.MaxWait = 120 * time.Second
	}
	if c.Gateway.ProbeTimeout == 0 {
		c.Gateway.ProbeTimeout = time.Second
	}
	if c.Auth.PollInterval == 0 {
		c.Auth.PollInterval = time.Second
	}
	if c.Auth.PollAttempts == 0 {
		c.Auth.PollAttempts = 60
	}
	if c.Web.Templates == "" {
		c.Web.Templates = "web/templates/*.html"
	}
	if c.Web.Static == "" {
		c.Web.Static = "web/static"
	}
	if c.App.Name == "" {
		c.App.Name = "GameArena Deploy"
	}
	if c.App.Version == "" {
		c.App.Version = "1.0.0"
	}
	if c.App.DeviceName == "" {
		if host, err := os.Hostname(); err == nil {
			c.App.DeviceName = host
		} else {
			c.App.DeviceName = "wakegate"
		}
	}
}

func (c *Config) finalize() error {
	if c.App.ID == "" {
		return fmt.Errorf("app.id is required")
	}
	if c.Gateway.Target.ServiceURL == "" {
		return fmt.Errorf("gateway.service_url is required")
	}

	parsed, err := url.Parse(c.Gateway.Target.ServiceURL)
	if err != nil {
		return fmt.Errorf("parsing gateway.service_url: %w", err)
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("gateway.service_url %q has no host", c.Gateway.Target.ServiceURL)
	}

	c.Gateway.Target.Host = parsed.Hostname()
	c.Gateway.Target.Port, err = portFor(parsed)
	if err != nil {
		return err
	}
	return nil
}

func portFor(u *url.URL) (int, error) {
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("parsing port in %q: %w", u.String(), err)
		}
		return port, nil
	}
	if u.Scheme == "https" {
		return 443, nil
	}
	return 80, nil
}

// AppMetadata exposes the application identity used during authorization.
func (c *Config) AppMetadata() core.AppMetadata {
	return core.AppMetadata{
		ID:         c.App.ID,
		Name:       c.App.Name,
		Version:    c.App.Version,
		DeviceName: c.App.DeviceName,
	}
}

// MachineByIP resolves the registry entry whose IP matches ip.
func (c *Config) MachineByIP(ip string) (core.Machine, bool) {
	for _, machine := range c.Machines {
		if machine.IP == ip {
			return machine, true
		}
	}
	return core.Machine{}, false
}

// MachineByID resolves a registry entry by its identifier.
func (c *Config) MachineByID(id string) (core.Machine, bool) {
	machine, ok := c.Machines[id]
	return machine, ok
}
