package export

// Dataset is a table plus optional key/value summary lines printed above it.
type Dataset struct {
	Title   string
	Summary []SummaryLine
	Headers []string
	Rows    []map[string]string
}

// SummaryLine is a labelled value, e.g. "GPA: 3.50".
type SummaryLine struct {
	Label string
	Value string
}

// Renderer turns a dataset into a downloadable document.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}
