// Package utils provides common utility functions.
package utils

import "net/http"

// BuildHeaders creates HTTP headers with defaults for the boundary source.
func BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	// Add default headers
	headers.Add("User-Agent", "rescuemap/1.0")
	headers.Add("Accept", "application/vnd.google-earth.kml+xml, application/xml, text/xml")

	// Add custom headers
	for key, value := range customHeaders {
		headers.Add(key, value)
	}

	return headers
}
