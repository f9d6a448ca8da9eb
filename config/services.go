package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeConsole runs the console server (guarded pages, auth, API proxy).
	ServiceModeConsole ServiceMode = "console"
	// ServiceModeDevBackend runs the in-memory backend API.
	ServiceModeDevBackend ServiceMode = "dev-backend"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeConsole,
		ServiceModeDevBackend,
	}
}

// serviceModeList renders the valid modes for error messages.
func serviceModeList() string {
	names := make([]string, 0, len(ValidServiceModes()))
	for _, m := range ValidServiceModes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

// ParseServices parses SERVICES (e.g. "console,dev-backend") into the set of enabled modes.
// Blank entries are skipped; an unknown name fails the whole list.
func ParseServices(raw string) (map[ServiceMode]bool, error) {
	if strings.TrimSpace(raw) == "" {
		return map[ServiceMode]bool{}, errors.New("at least one service must be specified")
	}

	enabled := make(map[ServiceMode]bool)
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		mode := ServiceMode(name)
		if !slices.Contains(ValidServiceModes(), mode) {
			return nil, fmt.Errorf("invalid service name: %q (valid options: %s)", name, serviceModeList())
		}
		enabled[mode] = true
	}

	if len(enabled) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}
	return enabled, nil
}
