package app

import "xcsign/internal/types"

type ExportRequest struct {
	ShellScript        string
	DistributionMethod string
	// SDK overrides the build command's -sdk value.
	SDK string
	// WorkDir anchors relative project, workspace and export paths. Empty
	// means the process working directory.
	WorkDir string
	DryRun  bool
}

type ExportResult struct {
	ExportPath  string
	DefaultPath bool
	Document    types.ExportDocument
	Entry       EntrySummary
	Hints       []string
}

// EntrySummary describes where a resolution started.
type EntrySummary struct {
	Shape         types.EntryShape `yaml:"shape"`
	Project       string           `yaml:"project"`
	Scheme        string           `yaml:"scheme,omitempty"`
	Target        string           `yaml:"target"`
	Configuration string           `yaml:"configuration"`
	SDK           string           `yaml:"sdk"`
}

type TreeRequest struct {
	ShellScript string
	SDK         string
	WorkDir     string
}

type TreeResult struct {
	Entry EntrySummary `yaml:"entry"`
	Root  TreeNode     `yaml:"root"`
}

// TreeNode is the serializable form of a dependency tree node.
type TreeNode struct {
	Target           string     `yaml:"target"`
	BundleID         string     `yaml:"bundleId,omitempty"`
	ProfileSpecifier string     `yaml:"profileSpecifier,omitempty"`
	Team             string     `yaml:"team,omitempty"`
	Identity         string     `yaml:"identity,omitempty"`
	Style            string     `yaml:"style"`
	Children         []TreeNode `yaml:"children,omitempty"`
}

type ValidateRequest struct {
	Path string
}

type ValidateResult struct {
	Path   string
	Keys   int
	Method string
}

type InstallProfilesRequest struct {
	SourceDir string
	// TargetDir defaults to DefaultProfilesDir.
	TargetDir string
}

type InstallProfilesResult struct {
	TargetDir string
	Installed []types.InstalledProfile
}
