package adapters

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"xcsign/internal/ports"
	"xcsign/internal/types"
)

const workspaceContentsFile = "contents.xcworkspacedata"

type WorkspaceAdapter struct{}

func NewWorkspaceAdapter() WorkspaceAdapter {
	return WorkspaceAdapter{}
}

// ProjectPath returns the first project referenced by the workspace,
// resolved against the directory that holds the workspace bundle.
func (a WorkspaceAdapter) ProjectPath(workspacePath string) (string, error) {
	if strings.TrimSpace(workspacePath) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace path is empty")
	}
	locations, err := readWorkspaceLocations(filepath.Join(workspacePath, workspaceContentsFile))
	if err != nil {
		return "", err
	}
	base := filepath.Dir(filepath.Clean(workspacePath))
	for _, location := range locations {
		path, ok := resolveWorkspaceLocation(base, location)
		if !ok || filepath.Ext(path) != ".xcodeproj" {
			continue
		}
		return path, nil
	}
	return "", types.Fail(types.ErrNotFound, "workspace references no project",
		"workspace", workspacePath,
	)
}

func readWorkspaceLocations(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, types.FailWithCause(types.ErrNotFound, err, "workspace contents not found",
			"path", path,
		)
	}
	defer file.Close()

	var locations []string
	decoder := xml.NewDecoder(file)
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return locations, nil
		}
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid workspace contents: " + path).
				WithCause(err)
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "FileRef" {
			continue
		}
		if location := xmlAttr(start, "location"); location != "" {
			locations = append(locations, location)
		}
	}
}

// resolveWorkspaceLocation maps a FileRef location such as
// "group:Runner.xcodeproj" to a filesystem path.
func resolveWorkspaceLocation(base string, location string) (string, bool) {
	kind, rest, found := strings.Cut(location, ":")
	if !found {
		return filepath.Join(base, location), true
	}
	switch kind {
	case "group", "container":
		return filepath.Join(base, rest), true
	case "absolute":
		return filepath.Clean(rest), true
	case "self":
		// Embedded workspaces live inside the project bundle they describe.
		return base, true
	default:
		return "", false
	}
}

var _ ports.WorkspaceFilePort = WorkspaceAdapter{}
