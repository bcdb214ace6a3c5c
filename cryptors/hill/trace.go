package hill

import "github.com/bgallie/hill/cryptors/matrix"

// StepKind identifies the payload type carried by a Step.
type StepKind string

const (
	KindPreprocess StepKind = "preprocess"
	KindKey        StepKind = "key"
	KindInverse    StepKind = "inverse"
	KindVectors    StepKind = "vectors"
	KindBlock      StepKind = "block"
	KindResult     StepKind = "result"
)

// Step is one observation emitted while a text is enciphered or
// deciphered.  Steps never influence the result.
type Step struct {
	Kind    StepKind `json:"kind"`
	Title   string   `json:"title"`
	Payload any      `json:"payload"`
}

// PreprocessStep records the input before and after sanitizing and padding.
type PreprocessStep struct {
	Original string `json:"original"`
	Cleaned  string `json:"cleaned"`
	Padding  int    `json:"padding"`
}

// KeyStep records the (normalized) key matrix in use.
type KeyStep struct {
	Matrix matrix.Matrix `json:"matrix"`
}

// InverseStep records how the decryption matrix was obtained.
type InverseStep struct {
	Determinant        int           `json:"determinant"`
	DeterminantInverse int           `json:"determinantInverse"`
	Adjugate           matrix.Matrix `json:"adjugate"`
	Inverse            matrix.Matrix `json:"inverse"`
}

// VectorsStep records the text split into numeric blocks.
type VectorsStep struct {
	Text    string          `json:"text"`
	Vectors []matrix.Vector `json:"vectors"`
}

// BlockStep records the transform of one block.  Index is zero based.
type BlockStep struct {
	Index   int           `json:"index"`
	Input   matrix.Vector `json:"input"`
	Raw     matrix.Vector `json:"raw"`
	Reduced matrix.Vector `json:"reduced"`
}

// ResultStep records the output text.
type ResultStep struct {
	Text string `json:"text"`
}

// Observer receives the steps of a computation in order.
type Observer interface {
	Observe(Step)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Step)

// Observe calls f(s).
func (f ObserverFunc) Observe(s Step) {
	f(s)
}

// Trace is an Observer that records every step.
type Trace []Step

// Observe appends s.
func (t *Trace) Observe(s Step) {
	*t = append(*t, s)
}

// Kinds returns the kind of every recorded step, in order.
func (t Trace) Kinds() []StepKind {
	kinds := make([]StepKind, len(t))
	for i, s := range t {
		kinds[i] = s.Kind
	}

	return kinds
}

func emit(obs Observer, kind StepKind, title string, payload any) {
	if obs == nil {
		return
	}

	obs.Observe(Step{Kind: kind, Title: title, Payload: payload})
}
