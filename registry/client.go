package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EndpointsEnvVar names the environment variable NewClientFromEnv reads
// for a comma-separated etcd endpoint list.
const EndpointsEnvVar = "GRIDMIND_REGISTRY_ENDPOINTS"

// Client implements Registry against an etcd cluster.
//
// Lease management is automatic: Register grants a lease with the
// configured TTL and a background goroutine renews it every TTL/3 until
// the run deregisters or the client closes.
//
// Thread-safety: all methods are safe for concurrent use.
type Client struct {
	client    *clientv3.Client
	namespace string
	ttl       int

	mu         sync.RWMutex
	leases     map[string]clientv3.LeaseID // run ID -> lease
	infos      map[string]RunInfo          // run ID -> last written entry
	cancelFns  map[string]context.CancelFunc
	wg         sync.WaitGroup
	closed     bool
	closedChan chan struct{}
}

// NewClient creates a registry client from the provided configuration.
//
// This connects to etcd and verifies connectivity with a quick probe.
// The client must be closed with Close when no longer needed.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("registry endpoints cannot be empty")
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "gridmind"
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30
	}

	clientCfg := clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: 5 * time.Second,
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		tlsInfo, err := newTLSInfo(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
		tlsConfig, err := tlsInfo.ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		clientCfg.TLS = tlsConfig
	}

	cli, err := clientv3.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err = cli.Get(ctx, "health-check")
	if err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	return &Client{
		client:     cli,
		namespace:  namespace,
		ttl:        ttl,
		leases:     make(map[string]clientv3.LeaseID),
		infos:      make(map[string]RunInfo),
		cancelFns:  make(map[string]context.CancelFunc),
		closedChan: make(chan struct{}),
	}, nil
}

// NewClientFromEnv creates a registry client from the
// GRIDMIND_REGISTRY_ENDPOINTS environment variable.
//
// If the variable is not set, this returns (nil, nil): the explorer
// works normally, it just is not discoverable. An error is returned only
// when the variable is set but the connection fails.
func NewClientFromEnv() (*Client, error) {
	endpoints := os.Getenv(EndpointsEnvVar)
	if endpoints == "" {
		return nil, nil
	}

	endpointList := strings.Split(endpoints, ",")
	for i, ep := range endpointList {
		endpointList[i] = strings.TrimSpace(ep)
	}

	return NewClient(Config{Endpoints: endpointList})
}

// Register adds a run to the registry and starts its keepalive.
//
// The run is discoverable immediately and remains so as long as the
// lease is renewed. Re-registering the same RunID replaces the entry and
// restarts the keepalive goroutine.
func (c *Client) Register(ctx context.Context, info RunInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("registry client is closed")
	}

	// Cancel existing keepalive if re-registering.
	if cancelFn, exists := c.cancelFns[info.RunID]; exists {
		cancelFn()
		delete(c.cancelFns, info.RunID)
	}

	leaseResp, err := c.client.Grant(ctx, int64(c.ttl))
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	if err := c.put(ctx, info, leaseResp.ID); err != nil {
		return err
	}

	c.leases[info.RunID] = leaseResp.ID
	c.infos[info.RunID] = info

	keepaliveCtx, cancel := context.WithCancel(context.Background())
	c.cancelFns[info.RunID] = cancel

	c.wg.Add(1)
	go c.keepalive(keepaliveCtx, leaseResp.ID, info.RunID)

	return nil
}

// Heartbeat rewrites the run's entry with an updated position, keeping
// the existing lease. Unknown run IDs are ignored.
func (c *Client) Heartbeat(ctx context.Context, runID, position string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("registry client is closed")
	}

	leaseID, exists := c.leases[runID]
	if !exists {
		return nil
	}

	info := c.infos[runID]
	info.Position = position
	if err := c.put(ctx, info, leaseID); err != nil {
		return err
	}
	c.infos[runID] = info
	return nil
}

// Deregister removes a run by revoking its lease, which deletes the
// entry immediately. Unknown run IDs are a no-op.
func (c *Client) Deregister(ctx context.Context, runID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("registry client is closed")
	}

	if cancelFn, exists := c.cancelFns[runID]; exists {
		cancelFn()
		delete(c.cancelFns, runID)
	}

	leaseID, exists := c.leases[runID]
	if !exists {
		return nil
	}

	if _, err := c.client.Revoke(ctx, leaseID); err != nil {
		return fmt.Errorf("failed to revoke lease: %w", err)
	}

	delete(c.leases, runID)
	delete(c.infos, runID)
	return nil
}

// Active returns all currently registered runs.
func (c *Client) Active(ctx context.Context) ([]RunInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("registry client is closed")
	}
	return c.fetch(ctx)
}

// Watch returns a channel that receives the current run list whenever a
// run registers, deregisters, or expires. The initial state is sent
// immediately.
func (c *Client) Watch(ctx context.Context) (<-chan []RunInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("registry client is closed")
	}

	ch := make(chan []RunInfo, 1)

	runs, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	ch <- runs

	watchChan := c.client.Watch(ctx, c.prefix(), clientv3.WithPrefix())

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.closedChan:
				return
			case watchResp, ok := <-watchChan:
				if !ok {
					return
				}
				if watchResp.Err() != nil {
					return
				}

				runs, err := c.fetch(context.Background())
				if err != nil {
					// Skip this update if the query fails.
					continue
				}

				select {
				case ch <- runs:
				case <-ctx.Done():
					return
				case <-c.closedChan:
					return
				}
			}
		}
	}()

	return ch, nil
}

// Close releases all resources and stops background goroutines.
// After Close, all other methods return errors.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	for _, cancel := range c.cancelFns {
		cancel()
	}
	c.cancelFns = make(map[string]context.CancelFunc)

	close(c.closedChan)
	c.mu.Unlock()

	c.wg.Wait()

	return c.client.Close()
}

// keepalive renews the lease every TTL/3 to maintain run presence.
// It stops when the context is cancelled, the client closes, or the
// lease becomes invalid.
func (c *Client) keepalive(ctx context.Context, leaseID clientv3.LeaseID, runID string) {
	defer c.wg.Done()

	interval := time.Duration(c.ttl) * time.Second / 3
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closedChan:
			return
		case <-ticker.C:
			_, err := c.client.KeepAliveOnce(context.Background(), leaseID)
			if err != nil {
				c.mu.Lock()
				delete(c.leases, runID)
				delete(c.infos, runID)
				delete(c.cancelFns, runID)
				c.mu.Unlock()
				return
			}
		}
	}
}

func (c *Client) put(ctx context.Context, info RunInfo, leaseID clientv3.LeaseID) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal run info: %w", err)
	}
	_, err = c.client.Put(ctx, c.key(info.RunID), string(data), clientv3.WithLease(leaseID))
	if err != nil {
		return fmt.Errorf("failed to write run entry: %w", err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context) ([]RunInfo, error) {
	resp, err := c.client.Get(ctx, c.prefix(), clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]RunInfo, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var info RunInfo
		if err := json.Unmarshal(kv.Value, &info); err != nil {
			// Skip invalid entries.
			continue
		}
		runs = append(runs, info)
	}
	return runs, nil
}

// key formats the etcd key for a run: /namespace/runs/run-id.
func (c *Client) key(runID string) string {
	return fmt.Sprintf("/%s/runs/%s", c.namespace, runID)
}

func (c *Client) prefix() string {
	return fmt.Sprintf("/%s/runs/", c.namespace)
}
