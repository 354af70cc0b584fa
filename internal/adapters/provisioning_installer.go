package adapters

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"go.mozilla.org/pkcs7"
	"howett.net/plist"

	"xcsign/internal/ports"
	"xcsign/internal/types"
)

const provisioningProfileExtension = ".mobileprovision"

// The UUID becomes the installed file name, so nothing but hex digits and
// dashes is accepted.
var profileUUIDPattern = regexp.MustCompile(`^[-a-fA-F0-9]{36}$`)

// ProvisioningInstallerAdapter installs .mobileprovision files under the
// <UUID>.mobileprovision name Xcode looks them up by.
type ProvisioningInstallerAdapter struct{}

func NewProvisioningInstallerAdapter() ProvisioningInstallerAdapter {
	return ProvisioningInstallerAdapter{}
}

func (a ProvisioningInstallerAdapter) InstallProfiles(sourceDir string, targetDir string) ([]types.InstalledProfile, error) {
	if strings.TrimSpace(sourceDir) == "" || strings.TrimSpace(targetDir) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("profile source and target directories are required")
	}
	sources, err := findProvisioningProfiles(sourceDir)
	if err != nil {
		return nil, err
	}
	pending := make([]types.InstalledProfile, 0, len(sources))
	contents := make([][]byte, 0, len(sources))
	for _, source := range sources {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("failed to read provisioning profile: " + source).
				WithCause(err)
		}
		profile, err := ParseProvisioningProfile(data)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid provisioning profile: " + source).
				WithCause(err)
		}
		pending = append(pending, types.InstalledProfile{
			SourcePath: source,
			TargetPath: filepath.Join(targetDir, profile.UUID+provisioningProfileExtension),
			Profile:    profile,
		})
		contents = append(contents, data)
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create profile directory").
			WithCause(err)
	}
	// Every profile parsed; a copy failure returns what was installed so far.
	installed := make([]types.InstalledProfile, 0, len(pending))
	for i, profile := range pending {
		if err := os.WriteFile(profile.TargetPath, contents[i], 0644); err != nil {
			return installed, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to install provisioning profile: " + profile.TargetPath).
				WithCause(err)
		}
		installed = append(installed, profile)
	}
	return installed, nil
}

// ParseProvisioningProfile unwraps the PKCS#7 envelope and decodes the
// plist payload. Signatures are not verified.
func ParseProvisioningProfile(data []byte) (types.ProvisioningProfile, error) {
	p7, err := pkcs7.Parse(data)
	if err != nil {
		return types.ProvisioningProfile{}, err
	}
	var profile types.ProvisioningProfile
	if _, err := plist.Unmarshal(p7.Content, &profile); err != nil {
		return types.ProvisioningProfile{}, err
	}
	if strings.TrimSpace(profile.UUID) == "" {
		return types.ProvisioningProfile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("provisioning profile has no UUID")
	}
	if !profileUUIDPattern.MatchString(profile.UUID) {
		return types.ProvisioningProfile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("provisioning profile UUID is malformed: " + profile.UUID)
	}
	return profile, nil
}

func findProvisioningProfiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), provisioningProfileExtension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to scan profile directory").
			WithCause(err)
	}
	return paths, nil
}

var _ ports.ProfileInstallerPort = ProvisioningInstallerAdapter{}
