package pass

// Status is the outcome of running one pass.
type Status uint8

const (
	StatusValidatedTrue Status = iota + 1
	StatusValidatedFalse
	StatusTranslated
	StatusNotTranslated
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusValidatedTrue:
		return "valid"
	case StatusValidatedFalse:
		return "invalid"
	case StatusTranslated:
		return "translated"
	case StatusNotTranslated:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OK folds the status into the pipeline's aggregate: NotTranslated counts
// as success, ValidatedFalse and Failed as failure.
func (s Status) OK() bool {
	switch s {
	case StatusValidatedTrue, StatusTranslated, StatusNotTranslated:
		return true
	default:
		return false
	}
}
