package instance

import "os"

// GetID identifies the running api instance in logs. It prefers the platform
// dyno name, then the host name.
func GetID() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
