package ports

import "xcsign/internal/types"

// ProfileInstallerPort copies provisioning profiles to the directory Xcode
// reads them from.
type ProfileInstallerPort interface {
	InstallProfiles(sourceDir string, targetDir string) ([]types.InstalledProfile, error)
}
