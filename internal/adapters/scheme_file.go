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

const schemeExtension = ".xcscheme"

type SchemeFileAdapter struct{}

func NewSchemeFileAdapter() SchemeFileAdapter {
	return SchemeFileAdapter{}
}

// SchemePath prefers the shared scheme. A user scheme is only returned when
// no shared scheme of that name exists.
func (a SchemeFileAdapter) SchemePath(projectPath string, schemeName string) string {
	shared := filepath.Join(projectPath, "xcshareddata", "xcschemes", schemeName+schemeExtension)
	if _, err := os.Stat(shared); err == nil {
		return shared
	}
	matches, _ := filepath.Glob(filepath.Join(projectPath, "xcuserdata", "*.xcuserdatad", "xcschemes", schemeName+schemeExtension))
	if len(matches) > 0 {
		return matches[0]
	}
	return shared
}

func (a SchemeFileAdapter) LoadScheme(path string) (types.Scheme, error) {
	file, err := os.Open(path)
	if err != nil {
		return types.Scheme{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("scheme file not found: " + path).
			WithCause(err)
	}
	defer file.Close()

	scheme := types.Scheme{
		Name: strings.TrimSuffix(filepath.Base(path), schemeExtension),
		Path: path,
	}
	decoder := xml.NewDecoder(file)
	sawRoot := false
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return types.Scheme{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid scheme file: " + path).
				WithCause(err)
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "Scheme":
			sawRoot = true
		case "BuildableReference":
			scheme.BuildableReferences = append(scheme.BuildableReferences, types.BuildableReference{
				BuildableName:       xmlAttr(start, "BuildableName"),
				BlueprintIdentifier: xmlAttr(start, "BlueprintIdentifier"),
				BlueprintName:       xmlAttr(start, "BlueprintName"),
				ReferencedContainer: xmlAttr(start, "ReferencedContainer"),
			})
		case "ArchiveAction":
			scheme.ArchiveConfiguration = xmlAttr(start, "buildConfiguration")
		}
	}
	if !sawRoot {
		return types.Scheme{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("scheme file has no Scheme element: " + path)
	}
	return scheme, nil
}

func xmlAttr(start xml.StartElement, name string) string {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

var _ ports.SchemeFilePort = SchemeFileAdapter{}
