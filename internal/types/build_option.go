package types

// BuildOptions is the structured form of a build invocation. It is built
// once by the command interpreter and never modified afterwards.
type BuildOptions struct {
	values map[BuildOption]string
}

func NewBuildOptions(values map[BuildOption]string) BuildOptions {
	copied := make(map[BuildOption]string, len(values))
	for key, value := range values {
		copied[key] = value
	}
	return BuildOptions{values: copied}
}

func (o BuildOptions) Get(key BuildOption) (string, bool) {
	value, ok := o.values[key]
	return value, ok
}

// Value returns the option or an empty string when it is not set.
func (o BuildOptions) Value(key BuildOption) string {
	return o.values[key]
}

func (o BuildOptions) Has(key BuildOption) bool {
	_, ok := o.values[key]
	return ok
}

func (o BuildOptions) Len() int {
	return len(o.values)
}

// Map returns a copy of the underlying options.
func (o BuildOptions) Map() map[BuildOption]string {
	copied := make(map[BuildOption]string, len(o.values))
	for key, value := range o.values {
		copied[key] = value
	}
	return copied
}

type BuildCommand struct {
	Grammar           Grammar
	Options           BuildOptions
	ExportPlistPath   string
	DefaultExportPath bool
}
