package core

// Mode selects what a pipeline run emits.
type Mode int

const (
	ModeNormalize Mode = iota // canonical URL
	ModeSign                  // hex SHA-256 of the canonical URL
)

// Result is the outcome of one input in a batch.
type Result struct {
	Input  string
	Output string
	Code   Code
	Err    string
}

func (r Result) OK() bool { return r.Code == CodeOK }

// Stats summarizes a stream run.
type Stats struct {
	Lines  int
	Failed int
}
