package profile

// PreconditionError reports that Aggregate was called without the input it
// cannot default, i.e. the user profile itself.
type PreconditionError struct {
	What string
}

func (e *PreconditionError) Error() string {
	return "profile: missing " + e.What
}
