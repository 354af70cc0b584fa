package adapters

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	lru "github.com/hashicorp/golang-lru/v2"

	"xcsign/internal/ports"
	"xcsign/internal/types"
)

const xcconfigCacheSize = 64

// XCConfigFileAdapter parses .xcconfig files. Parsed tables are cached by
// absolute path and invalidated when the file's modification time changes.
type XCConfigFileAdapter struct {
	mu    sync.Mutex
	cache *lru.Cache[string, xcconfigCacheEntry]
}

type xcconfigCacheEntry struct {
	modTime  time.Time
	settings map[string]string
}

func NewXCConfigFileAdapter() (*XCConfigFileAdapter, error) {
	cache, err := lru.New[string, xcconfigCacheEntry](xcconfigCacheSize)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create xcconfig cache").
			WithCause(err)
	}
	return &XCConfigFileAdapter{cache: cache}, nil
}

func (a *XCConfigFileAdapter) LoadSettings(path string) (map[string]string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, types.FailWithCause(types.ErrNotFound, err, "xcconfig file not found",
			"path", path,
		)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if entry, ok := a.cache.Get(absPath); ok && entry.modTime.Equal(info.ModTime()) {
		return copySettings(entry.settings), nil
	}
	settings := map[string]string{}
	if err := parseXCConfig(absPath, settings, map[string]struct{}{}); err != nil {
		return nil, err
	}
	a.cache.Add(absPath, xcconfigCacheEntry{modTime: info.ModTime(), settings: settings})
	return copySettings(settings), nil
}

func parseXCConfig(path string, settings map[string]string, including map[string]struct{}) error {
	if _, ok := including[path]; ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("xcconfig include cycle at " + path)
	}
	including[path] = struct{}{}
	defer delete(including, path)

	file, err := os.Open(path)
	if err != nil {
		return types.FailWithCause(types.ErrNotFound, err, "xcconfig file not found",
			"path", path,
		)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripXCConfigComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#include") {
			if err := parseXCConfigInclude(path, line, settings, including); err != nil {
				return err
			}
			continue
		}
		key, value, ok := splitXCConfigAssignment(line)
		if !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid xcconfig line %d in %s", lineNo, path))
		}
		settings[key] = expandInherited(value, settings[key])
	}
	if err := scanner.Err(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read xcconfig " + path).
			WithCause(err)
	}
	return nil
}

func parseXCConfigInclude(path string, line string, settings map[string]string, including map[string]struct{}) error {
	optional := strings.HasPrefix(line, "#include?")
	target := strings.TrimPrefix(line, "#include?")
	target = strings.TrimPrefix(target, "#include")
	target = strings.Trim(strings.TrimSpace(target), `"`)
	if target == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty #include in " + path)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	if _, err := os.Stat(target); err != nil && optional {
		return nil
	}
	return parseXCConfig(target, settings, including)
}

// stripXCConfigComment removes a // comment. The marker is honoured
// anywhere on the line, as Xcode does.
func stripXCConfigComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	return line
}

// splitXCConfigAssignment splits at the first '=' that is not inside a
// conditional such as KEY[sdk=iphoneos*].
func splitXCConfigAssignment(line string) (string, string, bool) {
	depth := 0
	for i, r := range line {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '=':
			if depth > 0 {
				continue
			}
			key := strings.TrimSpace(line[:i])
			value := strings.TrimSpace(line[i+1:])
			value = strings.TrimSpace(strings.TrimSuffix(value, ";"))
			if key == "" {
				return "", "", false
			}
			return key, value, true
		}
	}
	return "", "", false
}

func expandInherited(value string, previous string) string {
	if !strings.Contains(value, "inherited") {
		return value
	}
	expanded := strings.ReplaceAll(value, "$(inherited)", previous)
	expanded = strings.ReplaceAll(expanded, "${inherited}", previous)
	return strings.TrimSpace(expanded)
}

func copySettings(settings map[string]string) map[string]string {
	copied := make(map[string]string, len(settings))
	for key, value := range settings {
		copied[key] = value
	}
	return copied
}

var _ ports.XCConfigPort = (*XCConfigFileAdapter)(nil)
