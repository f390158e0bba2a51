package cache

// Keyer builds cache keys.
type Keyer interface {
	// RunKey identifies the frames produced by playing a scenario.
	RunKey(scenarioHash string, opts RunKeyOpts) string

	// ArtifactKey identifies one rendered artifact of a run.
	ArtifactKey(runHash string, opts ArtifactKeyOpts) string
}

// RunKeyOpts are the options that change a scenario's frames.
type RunKeyOpts struct {
	Width       float64 `json:"width"`
	BottomInset float64 `json:"bottom_inset"`
	Animated    bool    `json:"animated"`
	Lang        string  `json:"lang,omitempty"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Frame  int    `json:"frame"` // -1 for every frame
	Labels bool   `json:"labels,omitempty"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RunKey implements Keyer.
func (DefaultKeyer) RunKey(scenarioHash string, opts RunKeyOpts) string {
	return hashKey("run", scenarioHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(runHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", runHash, opts)
}
