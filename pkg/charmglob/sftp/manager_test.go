package sftpmanager

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/ImGajeed76/charmglob/pkg/charmglob/sftp/sftptest"
)

func TestNewManager(t *testing.T) {
	tests := []struct {
		name   string
		config ManagerConfig
		want   ManagerConfig
	}{
		{
			name:   "default configuration",
			config: ManagerConfig{},
			want: ManagerConfig{
				MaxIdleTime:     DefaultMaxIdleTime,
				MaxConnections:  DefaultMaxConnections,
				CleanupInterval: DefaultCleanupInterval,
			},
		},
		{
			name: "custom configuration",
			config: ManagerConfig{
				MaxIdleTime:     10 * time.Minute,
				MaxConnections:  5,
				CleanupInterval: 1 * time.Minute,
			},
			want: ManagerConfig{
				MaxIdleTime:     10 * time.Minute,
				MaxConnections:  5,
				CleanupInterval: 1 * time.Minute,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewManager(tt.config)
			defer manager.Close()
			if manager.config != tt.want {
				t.Errorf("config = %+v, want %+v", manager.config, tt.want)
			}
		})
	}
}

func TestConnectionDetailsDefaults(t *testing.T) {
	details := ConnectionDetails{Hostname: "example.com", Username: "me"}
	details.applyDefaults()

	if details.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", details.Port, DefaultPort)
	}
	if details.String() != "me@example.com:22" {
		t.Errorf("String() = %q", details.String())
	}
}

func TestAdoptedClientIsPooled(t *testing.T) {
	manager := NewManager(ManagerConfig{})
	defer manager.Close()

	client := sftptest.NewClient(t)
	details := ConnectionDetails{Hostname: "memory", Username: "test"}
	manager.Adopt(details, client)

	got, err := manager.GetClient(context.Background(), details)
	if err != nil {
		t.Fatalf("GetClient() error = %v", err)
	}
	if got != client {
		t.Error("Expected to get the adopted client from the pool")
	}
	if _, ok := manager.Stats()["test@memory:22"]; !ok {
		t.Errorf("Stats() = %v, want key test@memory:22", manager.Stats())
	}
}

func TestConnectionPoolLimit(t *testing.T) {
	manager := NewManager(ManagerConfig{MaxConnections: 1})
	defer manager.Close()

	manager.Adopt(ConnectionDetails{Hostname: "memory", Username: "first"}, sftptest.NewClient(t))

	_, err := manager.GetClient(context.Background(), ConnectionDetails{Hostname: "memory", Username: "second"})
	if !errors.Is(err, ErrPoolFull) {
		t.Errorf("GetClient() error = %v, want ErrPoolFull", err)
	}
}

func TestDeadClientIsDropped(t *testing.T) {
	manager := NewManager(ManagerConfig{})
	defer manager.Close()

	client := sftptest.NewClient(t)
	details := ConnectionDetails{Hostname: "127.0.0.1", Port: 1, Username: "test", MaxRetries: 3}
	manager.Adopt(details, client)
	client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := manager.GetClient(ctx, details); err == nil {
		t.Fatal("Expected an error for a closed client without a reachable server")
	}
	if len(manager.Stats()) != 0 {
		t.Errorf("Stats() = %v, want empty", manager.Stats())
	}
}

func TestEvictIdle(t *testing.T) {
	manager := NewManager(ManagerConfig{MaxIdleTime: time.Minute})
	defer manager.Close()

	manager.Adopt(ConnectionDetails{Hostname: "memory", Username: "idle"}, sftptest.NewClient(t))

	manager.evictIdle(time.Now())
	if len(manager.Stats()) != 1 {
		t.Fatalf("Expected the fresh connection to survive")
	}

	manager.evictIdle(time.Now().Add(2 * time.Minute))
	if len(manager.Stats()) != 0 {
		t.Error("Expected the idle connection to be evicted")
	}
}

func TestAcquiredClientSurvivesEviction(t *testing.T) {
	manager := NewManager(ManagerConfig{MaxIdleTime: time.Minute})
	defer manager.Close()

	details := ConnectionDetails{Hostname: "memory", Username: "walker"}
	manager.Adopt(details, sftptest.NewClient(t))

	_, release, err := manager.Acquire(context.Background(), details)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	manager.evictIdle(time.Now().Add(2 * time.Minute))
	if len(manager.Stats()) != 1 {
		t.Fatal("Expected an acquired connection to survive eviction")
	}

	release()
	release()
	manager.evictIdle(time.Now().Add(2 * time.Minute))
	if len(manager.Stats()) != 0 {
		t.Error("Expected the released connection to be evicted once idle")
	}
}

func TestStoreKeepsFirstClient(t *testing.T) {
	manager := NewManager(ManagerConfig{})
	defer manager.Close()

	first := &clientInfo{client: sftptest.NewClient(t), lastUsed: time.Now()}
	second := &clientInfo{client: sftptest.NewClient(t), lastUsed: time.Now()}

	if got := manager.store("k", first); got != first {
		t.Fatal("Expected the first client to be pooled")
	}
	if got := manager.store("k", second); got != first {
		t.Error("Expected the pooled client to win over a duplicate dial")
	}
	if _, err := second.client.Getwd(); err == nil {
		t.Error("Expected the duplicate client to be closed")
	}
	if _, err := first.client.Getwd(); err != nil {
		t.Errorf("Pooled client unusable: %v", err)
	}
}

func TestCloseTwice(t *testing.T) {
	manager := NewManager(ManagerConfig{})
	manager.Adopt(ConnectionDetails{Hostname: "memory"}, sftptest.NewClient(t))
	manager.Close()
	manager.Close()

	if len(manager.Stats()) != 0 {
		t.Error("Expected no connections after Close")
	}
}

func TestGlobalManager(t *testing.T) {
	manager1 := GetGlobalManager()
	manager2 := GetGlobalManager()

	if manager1 != manager2 {
		t.Error("Expected to get the same global manager instance")
	}
}

// TestGetClientLive dials a real server. Set CHARMGLOB_SFTP_TEST_HOST, and
// optionally _PORT, _USER and _PASS, to run it.
func TestGetClientLive(t *testing.T) {
	host := os.Getenv("CHARMGLOB_SFTP_TEST_HOST")
	if host == "" {
		t.Skip("CHARMGLOB_SFTP_TEST_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("CHARMGLOB_SFTP_TEST_PORT"))

	manager := NewManager(ManagerConfig{})
	defer manager.Close()

	details := ConnectionDetails{
		Hostname:       host,
		Port:           port,
		Username:       os.Getenv("CHARMGLOB_SFTP_TEST_USER"),
		Password:       os.Getenv("CHARMGLOB_SFTP_TEST_PASS"),
		ConnectTimeout: 5 * time.Second,
		MaxRetries:     1,
	}

	client1, err := manager.GetClient(context.Background(), details)
	if err != nil {
		t.Fatalf("GetClient() error = %v", err)
	}
	if pwd, err := client1.Getwd(); err != nil || pwd == "" {
		t.Errorf("Getwd() = %q, %v", pwd, err)
	}

	client2, err := manager.GetClient(context.Background(), details)
	if err != nil {
		t.Fatalf("GetClient() error = %v", err)
	}
	if client1 != client2 {
		t.Error("Expected to get the same client from pool")
	}
}
