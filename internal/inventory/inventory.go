// Package inventory reads the list of devices to poll.
//
// Three file formats are understood, chosen by extension:
//
//	hosts.txt   one address per line, blank lines and # comments skipped
//	hosts.csv   address in the first column, optional header row
//	hosts.yaml  devices with per-device port and credential overrides
package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"lldpgraph/internal/domain"
)

// ErrEmpty is returned when a source yields no addresses
var ErrEmpty = errors.New("no device addresses")

// Format identifies an inventory file layout
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// headerCells are first-column values that mark a CSV header row
var headerCells = map[string]bool{
	"ip":         true,
	"ip address": true,
	"address":    true,
	"host":       true,
	"hostname":   true,
	"device":     true,
}

// File is the YAML inventory layout
type File struct {
	Devices []DeviceEntry `yaml:"devices"`
}

// DeviceEntry is one device in a YAML inventory. Empty fields fall back to
// the global settings.
type DeviceEntry struct {
	Address  string `yaml:"address"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Secret   string `yaml:"secret,omitempty"`
}

// Defaults are applied to every device that does not override them
type Defaults struct {
	Credentials domain.Credentials
	Port        int
}

// FormatFor picks the format from a file extension
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Load reads the inventory file at path
func Load(path string, defaults Defaults) ([]domain.Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()

	devices, err := Read(f, FormatFor(path), defaults)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Printf("Inventory: loaded %d devices from %s", len(devices), path)
	return devices, nil
}

// Read parses an inventory in the given format
func Read(r io.Reader, format Format, defaults Defaults) ([]domain.Device, error) {
	var entries []DeviceEntry

	switch format {
	case FormatYAML:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read inventory: %w", err)
		}
		var file File
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse inventory: %w", err)
		}
		entries = file.Devices
	case FormatCSV:
		addrs, err := readCSV(r)
		if err != nil {
			return nil, err
		}
		entries = entriesFor(addrs)
	default:
		addrs, err := readText(r)
		if err != nil {
			return nil, err
		}
		entries = entriesFor(addrs)
	}

	return devicesFrom(entries, defaults)
}

// FromAddresses builds devices for bare addresses, such as scan results
func FromAddresses(addrs []string, defaults Defaults) ([]domain.Device, error) {
	return devicesFrom(entriesFor(addrs), defaults)
}

func readText(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	var addrs []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// CSV rows in a plain hosts file: the address is the first field
		addr, _, _ := strings.Cut(line, ",")
		if addr = strings.TrimSpace(addr); addr != "" {
			addrs = append(addrs, addr)
		}
	}
	return addrs, nil
}

func readCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}

	var addrs []string
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		cell := strings.TrimSpace(record[0])
		if i == 0 && headerCells[strings.ToLower(cell)] {
			continue
		}
		if cell != "" {
			addrs = append(addrs, cell)
		}
	}
	return addrs, nil
}

func entriesFor(addrs []string) []DeviceEntry {
	entries := make([]DeviceEntry, 0, len(addrs))
	for _, addr := range addrs {
		entries = append(entries, DeviceEntry{Address: addr})
	}
	return entries
}

// devicesFrom fills defaults and drops repeated addresses, keeping the first
func devicesFrom(entries []DeviceEntry, defaults Defaults) ([]domain.Device, error) {
	port := defaults.Port
	if port == 0 {
		port = domain.DefaultSSHPort
	}

	seen := make(map[string]bool, len(entries))
	var devices []domain.Device
	for _, e := range entries {
		addr := strings.TrimSpace(e.Address)
		if addr == "" {
			continue
		}
		if seen[addr] {
			log.Printf("Inventory: skipping duplicate address %s", addr)
			continue
		}
		seen[addr] = true

		creds := domain.Credentials{
			Username: e.Username,
			Password: e.Password,
			Secret:   e.Secret,
		}
		device := domain.NewDevice(addr, creds.Merge(defaults.Credentials))
		device.Port = port
		if e.Port != 0 {
			device.Port = e.Port
		}
		devices = append(devices, device)
	}

	if len(devices) == 0 {
		return nil, ErrEmpty
	}
	return devices, nil
}
