package gcs

import (
	"fmt"
	"path"
	"strings"
)

const scheme = "gs://"

// ParseURI splits "gs://bucket/path/to/object" into bucket and object path.
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, scheme) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, scheme)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	return parts[0], parts[1], nil
}

// ExtractFilenameFromURI extracts the filename from a GCS URI.
// e.g., "gs://bucket/processed/customer_rfm.csv" → "customer_rfm.csv"
func ExtractFilenameFromURI(uri string) string {
	// Remove "gs://"
	trimmed := strings.TrimPrefix(uri, scheme)

	// Remove bucket name
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}

	return path.Base(parts[1])
}

// contentTypeFor picks the object content type from the file extension.
func contentTypeFor(object string) string {
	switch strings.ToLower(path.Ext(object)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// contentDispositionFor names the download after the object's base name.
func contentDispositionFor(uri string) string {
	return fmt.Sprintf("attachment; filename=%q", ExtractFilenameFromURI(uri))
}
