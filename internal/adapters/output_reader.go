package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"howett.net/plist"

	"xcsign/internal/ports"
)

type OutputReaderAdapter struct{}

func NewOutputReaderAdapter() OutputReaderAdapter {
	return OutputReaderAdapter{}
}

// ReadExportDocument decodes an existing export options file without
// assuming it was produced by this tool.
func (a OutputReaderAdapter) ReadExportDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("export options not found: " + path).
			WithCause(err)
	}
	document := map[string]any{}
	if _, err := plist.Unmarshal(data, &document); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid export options: " + path).
			WithCause(err)
	}
	return document, nil
}

var _ ports.ExportReaderPort = OutputReaderAdapter{}
