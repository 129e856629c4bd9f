package model

// ValidationError marks a request that fails domain validation. Handlers
// map it to 422; errors of any other unrecognized kind are a server fault.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func invalid(msg string) error { return ValidationError(msg) }
