package adapters

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"xcsign/internal/testutil"
)

func TestOutputReaderAdapterErrors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.plist")
	testutil.WriteFile(t, broken, "<plist><dict><key>method</key>")

	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(dir, "missing.plist")},
		{name: "malformed", path: broken},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOutputReaderAdapter().ReadExportDocument(tt.path)
			require.Error(t, err)
		})
	}
}
