package rfp

import "fmt"

// ExtractionError means the model's reply contained no recoverable JSON.
// Raw keeps the full model output for diagnosis. Extraction is never
// retried and never returns a partial structure.
type ExtractionError struct {
	Reason string
	Raw    string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract RFP structure: %s", e.Reason)
}

// ValidationError means the JSON parsed but violates referential
// integrity. Distinct from ExtractionError so callers can tell "model
// gave garbage" from "model gave inconsistent structure".
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid RFP structure: %s", e.Reason)
}
