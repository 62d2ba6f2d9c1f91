package health

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/pokt-network/poktroll/pkg/polylog"

	"github.com/zees-dev/zeth/hub"
)

const (
	// The image tag is set to the value of the IMAGE_TAG environment variable,
	// which is passed to the Docker image as a build argument at build time.
	// It represent the semver version of zeth (eg. `v0.0.1`).
	imageTagEnvVar = "IMAGE_TAG"
)

// Version is overridden at build time with -ldflags "-X github.com/zees-dev/zeth/health.Version=...".
// IMAGE_TAG takes precedence when set.
var Version = "v0.0.1"

// The status of the health check component.
type healthCheckStatus string

const (
	// statusReady indicates that all zeth components are ready
	statusReady healthCheckStatus = "ready"
	// statusNotReady indicates that one or more zeth components
	// cannot serve traffic (e.g. the directory store is unreachable)
	statusNotReady healthCheckStatus = "not_ready"
)

type (
	// health.Checker struct is used to store all zeth components whose
	// health needs to be checked to consider zeth ready to serve traffic.
	Checker struct {
		Logger     polylog.Logger
		Components []Check
		// Hub and Sessions are optional; their counts are included in the response when set.
		Hub      HubReporter
		Sessions SessionReporter
	}

	// health.Check is an interface that must be implemented
	// by components that need to report their health status
	Check interface {
		Name() string  // Name returns the name of the component being checked.
		IsAlive() bool // IsAlive returns true if the component is healthy, otherwise false.
	}

	// HubReporter is satisfied by the fan-out hub.
	HubReporter interface {
		Stats() hub.Stats
	}

	// SessionReporter is satisfied by the duplex relay.
	SessionReporter interface {
		ActiveSessions() int
	}
)

// healthCheckJSON is the JSON structure of the response body
// returned by the `/healthz` endpoint along with the status code.
type healthCheckJSON struct {
	// Status is either "ready" or "not_ready".
	Status healthCheckStatus `json:"status"`
	// Version is the semver tag of zeth, eg. `v0.0.1`
	Version string `json:"version"`
	// ReadyStates is a map of component names to their ready status
	ReadyStates map[string]bool `json:"readyStates,omitempty"`
	// Hub counts broadcast entries and attached subscribers.
	Hub *hub.Stats `json:"hub,omitempty"`
	// ActiveSessions counts open duplex relay sessions.
	ActiveSessions *int `json:"activeSessions,omitempty"`
}

type statusJSON struct {
	Status string `json:"status"`
}

type versionJSON struct {
	Version string `json:"version"`
}

// HealthzHandler returns the readiness of zeth as a JSON response.
//
// It will return a 200 OK status code if all components are ready or
// a 503 Service Unavailable status code if any component is not ready.
func (c *Checker) HealthzHandler(w http.ResponseWriter, req *http.Request) {
	readyStates := c.getComponentReadyStates()
	status := getStatus(readyStates)

	response := healthCheckJSON{
		Status:      status,
		Version:     GetVersion(),
		ReadyStates: readyStates,
	}
	if c.Hub != nil {
		stats := c.Hub.Stats()
		response.Hub = &stats
	}
	if c.Sessions != nil {
		active := c.Sessions.ActiveSessions()
		response.ActiveSessions = &active
	}

	statusCode := http.StatusOK
	if status != statusReady {
		statusCode = http.StatusServiceUnavailable
	}
	c.writeJSON(w, statusCode, response)
}

// LivenessHandler reports that the process is up, regardless of component state.
func (c *Checker) LivenessHandler(w http.ResponseWriter, req *http.Request) {
	c.writeJSON(w, http.StatusOK, statusJSON{Status: "up"})
}

// VersionHandler returns the running zeth version.
func (c *Checker) VersionHandler(w http.ResponseWriter, req *http.Request) {
	c.writeJSON(w, http.StatusOK, versionJSON{Version: GetVersion()})
}

func (c *Checker) writeJSON(w http.ResponseWriter, statusCode int, body any) {
	responseBytes, err := json.Marshal(body)
	if err != nil {
		c.Logger.Error().Msgf("error marshaling health check response: %s", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(responseBytes); err != nil {
		c.Logger.Error().Msgf("error writing health check response: %s", err.Error())
	}
}

// GetVersion returns IMAGE_TAG if set, otherwise the build version.
func GetVersion() string {
	if imageTag := os.Getenv(imageTagEnvVar); imageTag != "" {
		return imageTag
	}
	return Version
}

// getComponentReadyStates returns a map of component names to their ready status
func (c *Checker) getComponentReadyStates() map[string]bool {
	readyStates := make(map[string]bool)
	for _, component := range c.Components {
		readyStates[component.Name()] = component.IsAlive()
	}

	return readyStates
}

// getStatus returns statusNotReady if any component is not ready
func getStatus(readyStates map[string]bool) healthCheckStatus {
	for _, ready := range readyStates {
		if !ready {
			return statusNotReady
		}
	}
	return statusReady
}
