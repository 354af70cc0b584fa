package types

type BuildableReference struct {
	BuildableName       string
	BlueprintIdentifier string
	BlueprintName       string
	ReferencedContainer string
}

type Scheme struct {
	Name                 string
	Path                 string
	BuildableReferences  []BuildableReference
	ArchiveConfiguration string
}

// Entry is the starting point of a resolution: the project, the root
// target and the configuration every target is resolved with.
type Entry struct {
	Shape             EntryShape
	ProjectPath       string
	Graph             ProjectGraph
	TargetID          string
	TargetName        string
	ConfigurationName string
	SchemeName        string
}
