package chat

// ValidationError reports user-correctable bad input. It is raised before
// any session mutation so an invalid request leaves no trace.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
