package types

// ExportDocument is the ExportOptions.plist handed to the archive export
// step. Field tags are the plist keys xcodebuild expects.
type ExportDocument struct {
	TeamID                     string            `plist:"teamID" yaml:"teamID"`
	SigningStyle               string            `plist:"signingStyle" yaml:"signingStyle"`
	SigningCertificate         string            `plist:"signingCertificate" yaml:"signingCertificate"`
	UploadBitcode              bool              `plist:"uploadBitcode" yaml:"uploadBitcode"`
	CompileBitcode             bool              `plist:"compileBitcode" yaml:"compileBitcode"`
	UploadSymbols              bool              `plist:"uploadSymbols" yaml:"uploadSymbols"`
	ProvisioningProfiles       map[string]string `plist:"provisioningProfiles" yaml:"provisioningProfiles"`
	ICloudContainerEnvironment string            `plist:"iCloudContainerEnvironment,omitempty" yaml:"iCloudContainerEnvironment,omitempty"`
	Method                     string            `plist:"method" yaml:"method"`
}

type ExportEntry struct {
	Key   ExportKey
	Value any
}

// Entries returns the document values in ExportKeys order. The optional
// iCloud container environment is left out when it is empty.
func (d ExportDocument) Entries() []ExportEntry {
	entries := make([]ExportEntry, 0, len(ExportKeys))
	for _, key := range ExportKeys {
		var value any
		switch key {
		case ExportKeyTeamID:
			value = d.TeamID
		case ExportKeySigningStyle:
			value = d.SigningStyle
		case ExportKeySigningCertificate:
			value = d.SigningCertificate
		case ExportKeyUploadBitcode:
			value = d.UploadBitcode
		case ExportKeyCompileBitcode:
			value = d.CompileBitcode
		case ExportKeyUploadSymbols:
			value = d.UploadSymbols
		case ExportKeyProvisioningProfiles:
			value = d.ProvisioningProfiles
		case ExportKeyICloudContainerEnvironment:
			if d.ICloudContainerEnvironment == "" {
				continue
			}
			value = d.ICloudContainerEnvironment
		case ExportKeyMethod:
			value = d.Method
		}
		entries = append(entries, ExportEntry{Key: key, Value: value})
	}
	return entries
}

// ProvisioningProfile is the subset of a .mobileprovision payload needed to
// install it.
type ProvisioningProfile struct {
	Name           string   `plist:"Name"`
	UUID           string   `plist:"UUID"`
	TeamIdentifier []string `plist:"TeamIdentifier"`
	AppIDName      string   `plist:"AppIDName"`
}

type InstalledProfile struct {
	SourcePath string
	TargetPath string
	Profile    ProvisioningProfile
}
