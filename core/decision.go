package core

// DecisionKind classifies the outcome of a gateway redirect evaluation.
type DecisionKind string

const (
	// DecisionRedirect means the target is reachable (or at least booting)
	// and the browser should be sent straight to the service URL.
	DecisionRedirect DecisionKind = "redirect"

	// DecisionWait means a wake was attempted and the browser should show
	// a waiting page while the machine boots.
	DecisionWait DecisionKind = "wait"

	// DecisionConfigError means the gateway cannot act: no credential is
	// configured or the target machine is not registered.
	DecisionConfigError DecisionKind = "config_error"
)

// Decision is the result of evaluating the redirect policy for the target.
type Decision struct {
	Kind    DecisionKind
	URL     string  // set for DecisionRedirect
	Machine Machine // set for DecisionWait
	// WakeErr annotates a DecisionWait with the wake attempt's outcome.
	// A failed wake does not change the decision, only its annotation.
	WakeErr error
	// Err carries the configuration problem for DecisionConfigError.
	Err error
}
