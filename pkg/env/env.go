package env

import "os"

// Get reads an environment variable, treating empty the same as unset. Used
// for the handful of values read outside the envconfig structs, such as the
// PORT override the hosting platform injects.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
