package ports

// XCConfigPort parses external build settings files into a flat table.
type XCConfigPort interface {
	LoadSettings(path string) (map[string]string, error)
}

// EntitlementsPort reads values from an entitlements property list.
type EntitlementsPort interface {
	// ICloudContainerEnvironment returns ("", false, nil) when the file has
	// no environment entry.
	ICloudContainerEnvironment(path string) (string, bool, error)
}
