package ai

// Interpretation is the structured output of a QueryInterpreter.
type Interpretation struct {
	// Keywords are short terms to run through the plain catalog search.
	Keywords []string `json:"keywords"`

	// Category is empty when the query does not clearly target one.
	Category string `json:"category,omitempty"`
}
