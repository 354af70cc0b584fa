package ports

import "xcsign/internal/types"

type ExportWriterPort interface {
	WriteExportDocument(path string, document types.ExportDocument) error
}

type ExportReaderPort interface {
	ReadExportDocument(path string) (map[string]any, error)
}
