// Package env reads the few process settings that sit outside the MEDMART_
// config namespace, such as the platform-assigned port and log format.
package env

import "os"

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// Port prefers the platform's PORT over the configured one.
func Port(configured string) string {
	return Get("PORT", configured)
}
