package core

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"xcsign/internal/types"
)

const (
	// Value characters stop at shell metacharacters so redirections and
	// subshells next to a flag are not swallowed into its value.
	nativeOptionPattern  = `-[^-&\s|]*\s(([^-&|{}()<>@^%#;!]*\s[^&\s\-|{}()<>@^%#;!]+)|([^-&\s{}()<>@^%#;!][^\s{}()<>@^%#;!]*))?`
	wrapperOptionPattern = `--(?:\\\s|[^&|\s])*`
)

var nativeOptionFlags = map[string]types.BuildOption{
	"-target":             types.BuildOptionTarget,
	"-configuration":      types.BuildOptionConfiguration,
	"-exportOptionsPlist": types.BuildOptionExportPlist,
	"-scheme":             types.BuildOptionScheme,
	"-workspace":          types.BuildOptionWorkspace,
	"-project":            types.BuildOptionProject,
	"-sdk":                types.BuildOptionSDK,
}

var wrapperOptionFlags = map[string]types.BuildOption{
	"--export-options-plist": types.BuildOptionExportPlist,
}

// InterpreterConfig holds the values the interpreter assumes when an
// invocation does not spell them out.
type InterpreterConfig struct {
	WrapperCommands   []string `mapstructure:"wrapper_commands"`
	WrapperProject    string   `mapstructure:"wrapper_project"`
	WrapperScheme     string   `mapstructure:"wrapper_scheme"`
	WrapperTarget     string   `mapstructure:"wrapper_target"`
	NativeExportPath  string   `mapstructure:"native_export_path"`
	WrapperExportPath string   `mapstructure:"wrapper_export_path"`
}

func DefaultInterpreterConfig() InterpreterConfig {
	return InterpreterConfig{
		WrapperCommands:   []string{"flutter", "fvm"},
		WrapperProject:    "./ios/Runner.xcodeproj",
		WrapperScheme:     "Runner",
		WrapperTarget:     "Runner",
		NativeExportPath:  "./ExportOptionsPlists/exportOption.plist",
		WrapperExportPath: "./ios/ExportOptionsPlists/exportOption.plist",
	}
}

type CommandInterpreter struct {
	Config InterpreterConfig
}

func NewCommandInterpreter(config InterpreterConfig) CommandInterpreter {
	return CommandInterpreter{Config: config}
}

// Interpret never fails: unknown flags are dropped and a missing export
// path falls back to the grammar default.
func (i CommandInterpreter) Interpret(ctx context.Context, script string) types.BuildCommand {
	grammar := i.grammarFor(script)
	var options map[types.BuildOption]string
	defaultPath := i.Config.NativeExportPath
	switch grammar {
	case types.GrammarWrapper:
		options = extractOptions(script, wrapperOptionPattern, "=", wrapperOptionFlags)
		options[types.BuildOptionProject] = i.Config.WrapperProject
		options[types.BuildOptionScheme] = i.Config.WrapperScheme
		options[types.BuildOptionTarget] = i.Config.WrapperTarget
		defaultPath = i.Config.WrapperExportPath
	default:
		options = extractOptions(script, nativeOptionPattern, " ", nativeOptionFlags)
	}

	command := types.BuildCommand{
		Grammar: grammar,
		Options: types.NewBuildOptions(options),
	}
	if path, ok := options[types.BuildOptionExportPlist]; ok {
		command.ExportPlistPath = path
	} else {
		command.ExportPlistPath = defaultPath
		command.DefaultExportPath = true
		log.Ctx(ctx).Info().
			Str("grammar", string(grammar)).
			Str("path", defaultPath).
			Msg("export options path not provided, using default")
	}
	log.Ctx(ctx).Debug().
		Str("grammar", string(grammar)).
		Int("options", command.Options.Len()).
		Msg("build command interpreted")
	return command
}

func (i CommandInterpreter) grammarFor(script string) types.Grammar {
	fields := strings.Fields(script)
	if len(fields) == 0 {
		return types.GrammarNative
	}
	command := filepath.Base(fields[0])
	for _, wrapper := range i.Config.WrapperCommands {
		if command == wrapper {
			return types.GrammarWrapper
		}
	}
	return types.GrammarNative
}

// extractOptions splits every token on separator. The first piece names the
// flag and the rest, re-joined, is its value. One pair of surrounding quotes
// is dropped and escaped spaces are unescaped.
func extractOptions(script string, pattern string, separator string, flags map[string]types.BuildOption) map[types.BuildOption]string {
	options := map[types.BuildOption]string{}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return options
	}
	for _, token := range re.FindAllString(script, -1) {
		pieces := splitNonEmpty(token, separator)
		if len(pieces) == 0 {
			continue
		}
		option, ok := flags[pieces[0]]
		if !ok {
			continue
		}
		value := unquote(strings.Join(pieces[1:], separator))
		value = strings.ReplaceAll(value, `\ `, " ")
		if value == "" {
			continue
		}
		options[option] = value
	}
	return options
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if first == last && (first == '"' || first == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}

func splitNonEmpty(value string, separator string) []string {
	var pieces []string
	if separator == " " {
		return strings.Fields(value)
	}
	for _, piece := range strings.Split(value, separator) {
		if piece != "" {
			pieces = append(pieces, piece)
		}
	}
	return pieces
}
