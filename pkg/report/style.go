package report

// Style is one display treatment for a categorical value: a hex color and a
// plot marker glyph. The pipeline itself never interprets these; they exist
// so rendering collaborators stop hardcoding per-topology lookups.
type Style struct {
	Color  string `json:"color"`
	Marker string `json:"marker"`
}

// StyleMap resolves categorical values to display attributes, with a neutral
// fallback for values it has never seen. The topology set is open, so an
// unknown value must style cleanly rather than fail.
type StyleMap struct {
	styles   map[string]Style
	fallback Style
}

// NewStyleMap builds a style lookup from explicit assignments.
func NewStyleMap(styles map[string]Style, fallback Style) *StyleMap {
	copied := make(map[string]Style, len(styles))
	for k, v := range styles {
		copied[k] = v
	}
	return &StyleMap{styles: copied, fallback: fallback}
}

// Lookup returns the style for a value, or the fallback.
func (m *StyleMap) Lookup(value string) Style {
	if s, ok := m.styles[value]; ok {
		return s
	}
	return m.fallback
}

// DefaultAlgorithmStyles carries the established per-algorithm palette.
func DefaultAlgorithmStyles() *StyleMap {
	return NewStyleMap(map[string]Style{
		"gossip":   {Color: "#2E86AB", Marker: "o"},
		"push-sum": {Color: "#A23B72", Marker: "s"},
	}, Style{Color: "#7F7F7F", Marker: "x"})
}

// DefaultTopologyStyles carries the established per-topology palette.
func DefaultTopologyStyles() *StyleMap {
	return NewStyleMap(map[string]Style{
		"full":        {Color: "#1f77b4", Marker: "o"},
		"line":        {Color: "#ff7f0e", Marker: "s"},
		"3d":          {Color: "#2ca02c", Marker: "^"},
		"imperfect3d": {Color: "#d62728", Marker: "D"},
	}, Style{Color: "#7F7F7F", Marker: "x"})
}

// DefaultFailureModelStyles styles the failure-model comparison series.
func DefaultFailureModelStyles() *StyleMap {
	return NewStyleMap(map[string]Style{
		"node":       {Color: "#1f77b4", Marker: "o"},
		"connection": {Color: "#d62728", Marker: "*"},
	}, Style{Color: "#7F7F7F", Marker: "x"})
}
