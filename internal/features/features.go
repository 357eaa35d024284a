package features

// Stage is the lifecycle bucket of a feature flag.
type Stage string

const (
	StageStable       Stage = "stable"
	StageBeta         Stage = "beta"
	StageExperimental Stage = "experimental"
	StageDeprecated   Stage = "deprecated"
	StageRemoved      Stage = "removed"
)

// Spec describes a toggleable piece of the notebook UI.
type Spec struct {
	Key            string
	Stage          Stage
	DefaultEnabled bool
}

// Specs is the complete feature surface.
var Specs = []Spec{
	{Key: "mouse", Stage: StageStable, DefaultEnabled: true},
	{Key: "variable_explorer", Stage: StageStable, DefaultEnabled: true},
	{Key: "goto_palette", Stage: StageBeta, DefaultEnabled: true},
	{Key: "input_history", Stage: StageStable, DefaultEnabled: true},
	{Key: "flash_highlight", Stage: StageStable, DefaultEnabled: true},
}

var known = func() map[string]Spec {
	m := make(map[string]Spec, len(Specs))
	for _, spec := range Specs {
		m[spec.Key] = spec
	}
	return m
}()

// IsKnown reports whether the feature key is recognized.
func IsKnown(key string) bool {
	_, ok := known[key]
	return ok
}

// StageFor returns the lifecycle stage for a feature, defaulting to experimental.
func StageFor(key string) Stage {
	if spec, ok := known[key]; ok {
		return spec.Stage
	}
	return StageExperimental
}

// DefaultEnabled reports the default value for the given feature key.
func DefaultEnabled(key string) bool {
	if spec, ok := known[key]; ok {
		return spec.DefaultEnabled
	}
	return false
}

// Defaults returns the default enable map for config seeding.
func Defaults() map[string]bool {
	m := make(map[string]bool, len(Specs))
	for _, spec := range Specs {
		m[spec.Key] = spec.DefaultEnabled
	}
	return m
}
