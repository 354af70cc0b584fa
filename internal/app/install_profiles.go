package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"xcsign/internal/shared"
)

// DefaultProfilesDir is where Xcode looks up installed provisioning
// profiles.
const DefaultProfilesDir = "~/Library/MobileDevice/Provisioning Profiles"

func (s Service) InstallProfiles(ctx context.Context, req InstallProfilesRequest) (InstallProfilesResult, error) {
	sourceDir := strings.TrimSpace(req.SourceDir)
	if sourceDir == "" {
		return InstallProfilesResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("provisioning profile directory is required")
	}
	targetDir := strings.TrimSpace(req.TargetDir)
	if targetDir == "" {
		targetDir = DefaultProfilesDir
	}
	targetDir, err := shared.ExpandHome(targetDir)
	if err != nil {
		return InstallProfilesResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to resolve home directory").
			WithCause(err)
	}

	installed, installErr := s.Profiles.InstallProfiles(sourceDir, targetDir)
	logger := log.Ctx(ctx)
	for _, profile := range installed {
		logger.Info().
			Str("name", profile.Profile.Name).
			Str("uuid", profile.Profile.UUID).
			Str("path", profile.TargetPath).
			Msg("provisioning profile installed")
	}
	// Profiles copied before a failure stay installed and are reported.
	return InstallProfilesResult{TargetDir: targetDir, Installed: installed}, installErr
}
