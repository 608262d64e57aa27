package config

import (
	"github.com/ImGajeed76/charmglob/pkg/charmglob/console"
	sftpmanager "github.com/ImGajeed76/charmglob/pkg/charmglob/sftp"
	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

// Config represents a configuration instance that uses the system keyring
// to securely store values.
type Config struct {
	service string
}

// New creates a new Config instance with the given service name.
// The service name is used to namespace the stored values in the keyring.
func New(service string) (*Config, error) {
	if service == "" {
		return nil, errors.New("service name cannot be empty")
	}
	return &Config{
		service: service,
	}, nil
}

// Set stores a value in the keyring under the given key.
func (c *Config) Set(key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	return errors.Wrapf(keyring.Set(c.service, key, value), "keyring set %s", key)
}

// SetDefault stores a value in the keyring if it doesn't already exist.
func (c *Config) SetDefault(key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	existing, err := keyring.Get(c.service, key)
	if err == nil && existing != "" {
		return nil
	}
	return c.Set(key, value)
}

// Get retrieves a value from the keyring by its key.
// Returns an empty string if the key doesn't exist.
func (c *Config) Get(key string) string {
	if key == "" {
		return ""
	}

	value, err := keyring.Get(c.service, key)
	if err != nil {
		return ""
	}
	return value
}

// Exists checks if a key exists in the keyring.
func (c *Config) Exists(key string) bool {
	if key == "" {
		return false
	}

	_, err := keyring.Get(c.service, key)
	return err == nil
}

// Delete removes a value from the keyring by its key.
func (c *Config) Delete(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	return errors.Wrapf(keyring.Delete(c.service, key), "keyring delete %s", key)
}

// DeleteAll removes all values stored under the service name.
func (c *Config) DeleteAll() error {
	return keyring.DeleteAll(c.service)
}

// SetFromInput prompts the user for input and stores the value in the keyring.
func (c *Config) SetFromInput(key string, options console.InputOptions) (string, error) {
	value, err := console.Input(options)
	if err != nil {
		return "", err
	}

	if err := c.Set(key, value); err != nil {
		return "", err
	}
	return value, nil
}

// SftpKey is the keyring key holding the password for a connection.
func SftpKey(details sftpmanager.ConnectionDetails) string {
	return "sftp/" + details.String()
}

// SftpPassword returns the stored password for details, or "".
func (c *Config) SftpPassword(details sftpmanager.ConnectionDetails) string {
	return c.Get(SftpKey(details))
}

// SetSftpPassword stores the password for details.
func (c *Config) SetSftpPassword(details sftpmanager.ConnectionDetails, password string) error {
	return c.Set(SftpKey(details), password)
}

// PromptSftpPassword asks for the password of details and stores it.
func (c *Config) PromptSftpPassword(details sftpmanager.ConnectionDetails) (string, error) {
	return c.SetFromInput(SftpKey(details), console.InputOptions{
		Prompt:    "Password for " + details.String() + ":",
		CharLimit: 256,
		Width:     40,
		Required:  true,
		Secret:    true,
	})
}
