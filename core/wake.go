package core

// Credential is the long-lived application credential issued by the router
// after a human-approved registration. It is persisted as a small JSON file
// and reloaded on every operation; nothing caches it in memory.
type Credential struct {
	AppID      string `json:"app_id"`
	AppToken   string `json:"app_token"`
	FreeboxURL string `json:"freebox_url"`
}

// Valid reports whether all required fields are present.
func (c Credential) Valid() bool {
	return c.AppID != "" && c.AppToken != "" && c.FreeboxURL != ""
}

// AppMetadata describes this application to the router during registration.
type AppMetadata struct {
	ID         string
	Name       string
	Version    string
	DeviceName string
}

// Machine is a static registry entry for a wakeable host on the LAN.
type Machine struct {
	ID   string `yaml:"-" json:"-"`
	Name string `yaml:"name" json:"name"`
	MAC  string `yaml:"mac" json:"mac"`
	IP   string `yaml:"ip" json:"ip"`
}

// MachineStatus is a Machine annotated with its current reachability.
type MachineStatus struct {
	Machine
	Online bool `json:"online"`
}

// AuthorizationRequest is the router's answer to a registration request.
// TrackID is only ever used to poll the approval status and is discarded
// once the flow resolves.
type AuthorizationRequest struct {
	AppToken string
	TrackID  int
}

// AuthStatus is the router-reported state of a pending authorization.
type AuthStatus string

const (
	AuthPending AuthStatus = "pending"
	AuthGranted AuthStatus = "granted"
	AuthDenied  AuthStatus = "denied"
	AuthTimeout AuthStatus = "timeout"
)
