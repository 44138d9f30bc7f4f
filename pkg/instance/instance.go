package instance

import "os"

// GetID names this process in logs. WORKER_ID wins, then the container
// hostname, then fallback.
func GetID(fallback string) string {
	if id := os.Getenv("WORKER_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallback
}
