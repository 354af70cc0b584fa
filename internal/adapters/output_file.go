package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"howett.net/plist"

	"xcsign/internal/ports"
	"xcsign/internal/types"
)

// OutputFileAdapter writes export documents as XML property lists.
type OutputFileAdapter struct{}

func NewOutputFileAdapter() OutputFileAdapter {
	return OutputFileAdapter{}
}

func (a OutputFileAdapter) WriteExportDocument(path string, document types.ExportDocument) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	if document.ProvisioningProfiles == nil {
		document.ProvisioningProfiles = map[string]string{}
	}
	data, err := plist.MarshalIndent(document, plist.XMLFormat, "\t")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode export options").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write export options: " + path).
			WithCause(err)
	}
	return nil
}

func ensureParentDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return nil
}

var _ ports.ExportWriterPort = OutputFileAdapter{}
