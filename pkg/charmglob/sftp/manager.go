package sftpmanager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

var (
	globalManager *Manager
	once          sync.Once
)

// Default configuration values
const (
	DefaultPort              = 22
	DefaultMaxIdleTime       = 5 * time.Minute
	DefaultConnectTimeout    = 10 * time.Second
	DefaultMaxRetries        = 3
	DefaultRetryDelay        = 1 * time.Second
	DefaultKeepAliveInterval = 30 * time.Second
	DefaultMaxConnections    = 10
	DefaultCleanupInterval   = 2 * time.Minute
)

// ErrPoolFull is returned when a new connection would exceed MaxConnections.
var ErrPoolFull = errors.New("connection pool limit reached")

// ConnectionDetails holds the information needed to establish an SFTP connection
type ConnectionDetails struct {
	Hostname          string
	Port              int
	Username          string
	Password          string
	ConnectTimeout    time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	KeepAliveInterval time.Duration
}

// String returns a unique string representation of the connection details
func (cd ConnectionDetails) String() string {
	return fmt.Sprintf("%s@%s:%d", cd.Username, cd.Hostname, cd.Port)
}

// applyDefaults sets default values for unspecified fields
func (cd *ConnectionDetails) applyDefaults() {
	if cd.Port == 0 {
		cd.Port = DefaultPort
	}
	if cd.ConnectTimeout == 0 {
		cd.ConnectTimeout = DefaultConnectTimeout
	}
	if cd.MaxRetries == 0 {
		cd.MaxRetries = DefaultMaxRetries
	}
	if cd.RetryDelay == 0 {
		cd.RetryDelay = DefaultRetryDelay
	}
	if cd.KeepAliveInterval == 0 {
		cd.KeepAliveInterval = DefaultKeepAliveInterval
	}
}

// clientInfo holds the SFTP client and its last used timestamp.
// sshClient is nil for adopted clients. A client with inUse > 0 is never
// evicted for being idle.
type clientInfo struct {
	client    *sftp.Client
	sshClient *ssh.Client
	lastUsed  time.Time
	inUse     int
}

func (info *clientInfo) close() {
	if err := info.client.Close(); err != nil {
		log.Debug("closing sftp client", "err", err)
	}
	if info.sshClient != nil {
		if err := info.sshClient.Close(); err != nil {
			log.Debug("closing ssh client", "err", err)
		}
	}
}

// ManagerConfig holds the configuration for the SFTP manager
type ManagerConfig struct {
	MaxIdleTime     time.Duration
	MaxConnections  int
	CleanupInterval time.Duration
}

// Manager pools SFTP clients by connection key. Clients handed out are shared:
// callers must not close them.
type Manager struct {
	clients map[string]*clientInfo
	mu      sync.Mutex
	config  ManagerConfig
	done    chan struct{}
	closed  sync.Once
}

// NewManager creates a new Manager with the given configuration
func NewManager(config ManagerConfig) *Manager {
	if config.MaxIdleTime == 0 {
		config.MaxIdleTime = DefaultMaxIdleTime
	}
	if config.MaxConnections == 0 {
		config.MaxConnections = DefaultMaxConnections
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}

	m := &Manager{
		clients: make(map[string]*clientInfo),
		config:  config,
		done:    make(chan struct{}),
	}
	go m.cleanup()
	return m
}

// GetGlobalManager returns the global SFTP manager instance, creating it if needed
func GetGlobalManager() *Manager {
	once.Do(func() {
		globalManager = NewManager(ManagerConfig{})
	})
	return globalManager
}

// GetClient is a convenience function that uses the global manager
func GetClient(ctx context.Context, details ConnectionDetails) (*sftp.Client, error) {
	return GetGlobalManager().GetClient(ctx, details)
}

// GetClient returns a pooled SFTP client for the given connection details,
// dialing a new one with retries when none is alive.
func (m *Manager) GetClient(ctx context.Context, details ConnectionDetails) (*sftp.Client, error) {
	details.applyDefaults()
	key := details.String()

	if client, ok := m.getExistingClient(key); ok {
		return client, nil
	}

	m.mu.Lock()
	full := len(m.clients) >= m.config.MaxConnections
	m.mu.Unlock()
	if full {
		return nil, errors.Wrapf(ErrPoolFull, "%d connections", m.config.MaxConnections)
	}

	var err error
	for attempt := 0; attempt <= details.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Debug("retrying sftp connection", "key", key, "attempt", attempt, "err", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(details.RetryDelay):
			}
		}
		var client *sftp.Client
		if client, err = m.createNewClient(details); err == nil {
			return client, nil
		}
	}
	return nil, errors.Wrapf(err, "failed to create client after %d attempts", details.MaxRetries+1)
}

// Acquire is GetClient for long operations such as walks. The client is
// pinned against idle eviction until release is called.
func (m *Manager) Acquire(ctx context.Context, details ConnectionDetails) (*sftp.Client, func(), error) {
	client, err := m.GetClient(ctx, details)
	if err != nil {
		return nil, nil, err
	}
	details.applyDefaults()
	return client, m.pin(details.String(), client), nil
}

// pin marks the pooled client under key as in use and returns the func that
// undoes it. The func is safe to call more than once.
func (m *Manager) pin(key string, client *sftp.Client) func() {
	m.mu.Lock()
	info, ok := m.clients[key]
	if !ok || info.client != client {
		m.mu.Unlock()
		return func() {}
	}
	info.inUse++
	info.lastUsed = time.Now()
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			info.inUse--
			info.lastUsed = time.Now()
		})
	}
}

// Adopt puts an already connected client into the pool under the key of
// details. A client previously pooled under that key is closed.
func (m *Manager) Adopt(details ConnectionDetails, client *sftp.Client) {
	details.applyDefaults()
	key := details.String()

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.clients[key]; ok && old.client != client {
		old.close()
	}
	m.clients[key] = &clientInfo{client: client, lastUsed: time.Now()}
	log.Debug("adopted sftp client", "key", key)
}

func (m *Manager) getExistingClient(key string) (*sftp.Client, bool) {
	m.mu.Lock()
	info, exists := m.clients[key]
	if exists {
		info.lastUsed = time.Now()
	}
	m.mu.Unlock()

	if !exists {
		return nil, false
	}

	// Test if connection is still alive
	if _, err := info.client.Getwd(); err == nil {
		return info.client, true
	}

	log.Info("dropping dead sftp connection", "key", key)
	m.mu.Lock()
	if m.clients[key] == info {
		delete(m.clients, key)
	}
	m.mu.Unlock()
	info.close()
	return nil, false
}

func (m *Manager) createNewClient(details ConnectionDetails) (*sftp.Client, error) {
	sshConfig := &ssh.ClientConfig{
		User: details.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(details.Password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: verify against known_hosts
		Timeout:         details.ConnectTimeout,
	}

	sshClient, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", details.Hostname, details.Port), sshConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial SSH")
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, errors.Wrap(err, "failed to create SFTP client")
	}

	key := details.String()
	info := m.store(key, &clientInfo{
		client:    sftpClient,
		sshClient: sshClient,
		lastUsed:  time.Now(),
	})
	if info.sshClient != sshClient {
		return info.client, nil
	}

	if details.KeepAliveInterval > 0 {
		go m.keepAlive(key, sshClient, details.KeepAliveInterval)
	}
	log.Info("sftp connection established", "key", key)
	return sftpClient, nil
}

// store pools info under key unless another dial for the same key got there
// first. The loser is closed and the pooled entry is returned.
func (m *Manager) store(key string, info *clientInfo) *clientInfo {
	m.mu.Lock()
	existing, ok := m.clients[key]
	if !ok {
		m.clients[key] = info
	} else {
		existing.lastUsed = time.Now()
	}
	m.mu.Unlock()

	if ok {
		log.Debug("discarding duplicate sftp connection", "key", key)
		info.close()
		return existing
	}
	return info
}

func (m *Manager) keepAlive(key string, client *ssh.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, _, err := client.SendRequest("keepalive@openssh.com", true, nil); err != nil {
				log.Warn("sftp keepalive failed", "key", key, "err", err)
				return
			}
		case <-m.done:
			return
		}
	}
}

// cleanup periodically checks for and removes idle connections
func (m *Manager) cleanup() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle(time.Now())
		case <-m.done:
			return
		}
	}
}

func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, info := range m.clients {
		if info.inUse == 0 && now.Sub(info.lastUsed) > m.config.MaxIdleTime {
			log.Debug("closing idle sftp connection", "key", key)
			info.close()
			delete(m.clients, key)
		}
	}
}

// Close closes all connections and stops the cleanup goroutine
func (m *Manager) Close() {
	m.closed.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, info := range m.clients {
		info.close()
	}

	m.clients = make(map[string]*clientInfo)
}

// Stats returns current connection statistics
func (m *Manager) Stats() map[string]time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := make(map[string]time.Time, len(m.clients))
	for key, info := range m.clients {
		stats[key] = info.lastUsed
	}
	return stats
}
