package domain

import (
	"net"
	"strconv"
)

// DefaultSSHPort is used when a device does not specify a port
const DefaultSSHPort = 22

// Credentials holds the login material for a device CLI
type Credentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"-" yaml:"password,omitempty"`
	Secret   string `json:"-" yaml:"secret,omitempty"` // enable secret
}

// Complete reports whether a username and password are present
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// Merge fills empty fields from fallback
func (c Credentials) Merge(fallback Credentials) Credentials {
	if c.Username == "" {
		c.Username = fallback.Username
	}
	if c.Password == "" {
		c.Password = fallback.Password
	}
	if c.Secret == "" {
		c.Secret = fallback.Secret
	}
	return c
}

// Device is a set of connection parameters for one address.
// It lives only as long as the session that uses it.
type Device struct {
	Address     string      `json:"address" yaml:"address"`
	Port        int         `json:"port,omitempty" yaml:"port,omitempty"`
	Credentials Credentials `json:"credentials" yaml:",inline"`
}

// NewDevice creates a device on the default SSH port
func NewDevice(address string, creds Credentials) Device {
	return Device{
		Address:     address,
		Port:        DefaultSSHPort,
		Credentials: creds,
	}
}

// HostPort returns the dial address for the device
func (d Device) HostPort() string {
	port := d.Port
	if port == 0 {
		port = DefaultSSHPort
	}
	return net.JoinHostPort(d.Address, strconv.Itoa(port))
}
