package app

import (
	"xcsign/internal/adapters"
	"xcsign/internal/core"
	"xcsign/internal/policies"
	"xcsign/internal/ports"
)

type Service struct {
	Projects     ports.ProjectFilePort
	Schemes      ports.SchemeFilePort
	Workspaces   ports.WorkspaceFilePort
	XCConfig     ports.XCConfigPort
	Entitlements ports.EntitlementsPort
	Policy       ports.ExportPolicyPort
	ExportWriter ports.ExportWriterPort
	ExportReader ports.ExportReaderPort
	Profiles     ports.ProfileInstallerPort
	Interpreter  core.InterpreterConfig
}

// NewService wires the file adapters. The xcconfig cache belongs to the
// returned service only.
func NewService() (Service, error) {
	xcconfig, err := adapters.NewXCConfigFileAdapter()
	if err != nil {
		return Service{}, err
	}
	return Service{
		Projects:     adapters.NewPBXProjFileAdapter(),
		Schemes:      adapters.NewSchemeFileAdapter(),
		Workspaces:   adapters.NewWorkspaceAdapter(),
		XCConfig:     xcconfig,
		Entitlements: adapters.NewEntitlementsFileAdapter(),
		Policy:       policies.NewExportPolicy(),
		ExportWriter: adapters.NewOutputFileAdapter(),
		ExportReader: adapters.NewOutputReaderAdapter(),
		Profiles:     adapters.NewProvisioningInstallerAdapter(),
		Interpreter:  core.DefaultInterpreterConfig(),
	}, nil
}
