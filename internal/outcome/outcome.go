// Package outcome defines the correctness classification of a prediction
// against its ground-truth label and the rejection policy.
package outcome

// Outcome classifies one prediction for one utterance. Exactly one value
// applies per utterance per prediction stage (raw model or postprocessed).
type Outcome string

const (
	CorrectAndPredicted   Outcome = "CorrectAndPredicted"
	CorrectAndRejected    Outcome = "CorrectAndRejected"
	IncorrectAndRejected  Outcome = "IncorrectAndRejected"
	IncorrectAndPredicted Outcome = "IncorrectAndPredicted"
)

// All returns the complete outcome vocabulary in display order.
func All() []Outcome {
	return []Outcome{
		CorrectAndPredicted,
		CorrectAndRejected,
		IncorrectAndRejected,
		IncorrectAndPredicted,
	}
}

// Resolve classifies a prediction given the label and the rejection class id.
// A prediction equal to the rejection class counts as rejected; rejecting is
// correct only when the label itself is the rejection class.
func Resolve(prediction, label, rejectionClass int) Outcome {
	if prediction == rejectionClass {
		if label == rejectionClass {
			return CorrectAndRejected
		}
		return IncorrectAndRejected
	}
	if prediction == label {
		return CorrectAndPredicted
	}
	return IncorrectAndPredicted
}
