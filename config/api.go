package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Public paths (storefront search is read-only, no auth)
	return []string{"/api/search", "/health"}
}
