// Package registry provides run registration and discovery over etcd.
//
// Explorer runs are ephemeral: a run registers itself when it starts,
// heartbeats its current position while it iterates, and disappears when
// it deregisters or its lease expires. Supervisors and dashboards use
// Active and Watch to see what is currently exploring.
//
// Registration is optional everywhere in this module. The loop never
// requires a registry; a nil client from NewClientFromEnv means the run
// simply is not discoverable.
package registry

import (
	"context"
	"time"
)

// RunInfo describes a registered explorer run.
//
// Multiple runs of the same scenario can be live simultaneously; each is
// keyed by its unique RunID.
type RunInfo struct {
	// RunID uniquely identifies the run (the agent loop's run ID).
	RunID string `json:"run_id"`

	// Scenario is the scenario name being explored.
	Scenario string `json:"scenario"`

	// Position is the agent's most recently reported position,
	// formatted as "(row, col)". Updated by Heartbeat.
	Position string `json:"position"`

	// Metadata contains run-specific attributes, such as the step budget
	// or the host running the explorer.
	Metadata map[string]string `json:"metadata,omitempty"`

	// StartedAt is when the run started.
	StartedAt time.Time `json:"started_at"`
}

// Registry defines the run registration and discovery interface.
//
// Implementations must be safe for concurrent use. Entries carry a TTL
// lease so crashed runs disappear on their own.
type Registry interface {
	// Register adds a run to the registry. The entry stays visible as
	// long as its lease is renewed; a background goroutine renews it
	// every TTL/3. Re-registering the same RunID replaces the entry.
	Register(ctx context.Context, info RunInfo) error

	// Heartbeat updates the registered entry's position. It is a no-op
	// for a RunID that was never registered.
	Heartbeat(ctx context.Context, runID, position string) error

	// Deregister removes a run immediately by revoking its lease.
	// Deregistering an unknown run is a no-op.
	Deregister(ctx context.Context, runID string) error

	// Active returns all currently registered runs, in arbitrary order.
	Active(ctx context.Context) ([]RunInfo, error)

	// Watch returns a channel that receives the current run list
	// whenever a run registers, deregisters, or expires. The initial
	// state is sent immediately. The channel closes when ctx is
	// cancelled or the registry is closed.
	Watch(ctx context.Context) (<-chan []RunInfo, error)

	// Close releases resources and stops all background goroutines.
	Close() error
}

// Config holds registry connection configuration.
type Config struct {
	// Endpoints is the list of etcd endpoints, e.g. ["localhost:2379"].
	Endpoints []string `json:"endpoints"`

	// Namespace is the etcd key prefix for run entries. Runs are stored
	// under /{namespace}/runs/{run-id}.
	// Default: "gridmind"
	Namespace string `json:"namespace"`

	// TTL is the lease time-to-live in seconds. A run that fails to
	// renew within this interval is removed.
	// Default: 30
	TTL int `json:"ttl"`

	// TLS holds TLS configuration for secure etcd communication.
	// If nil, TLS is disabled.
	TLS *TLSConfig `json:"tls"`
}

// TLSConfig holds certificate paths for mutual TLS with etcd.
type TLSConfig struct {
	// Enabled determines whether TLS is active.
	Enabled bool `json:"enabled"`

	// CertFile is the path to the client certificate (PEM).
	CertFile string `json:"cert_file"`

	// KeyFile is the path to the client private key (PEM).
	KeyFile string `json:"key_file"`

	// CAFile is the path to the CA certificate used to verify the etcd
	// server (PEM).
	CAFile string `json:"ca_file"`
}
