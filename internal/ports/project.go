package ports

import "xcsign/internal/types"

// ProjectFilePort parses a .xcodeproj bundle into its object graph.
type ProjectFilePort interface {
	LoadProject(path string) (types.ProjectGraph, error)
}

// SchemeFilePort reads shared scheme descriptions.
type SchemeFilePort interface {
	// SchemePath returns the shared scheme location inside a project bundle.
	SchemePath(projectPath string, schemeName string) string
	LoadScheme(path string) (types.Scheme, error)
}

// WorkspaceFilePort resolves a workspace to its primary project.
type WorkspaceFilePort interface {
	ProjectPath(workspacePath string) (string, error)
}
