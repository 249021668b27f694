package binder

import "fmt"

// TranslateError reports a declaration that has no Python binding.
type TranslateError struct {
	File string
	Line int
	// Qualified C++ name of the offending declaration.
	Decl   string
	Reason string
}

func (e *TranslateError) Error() string {
	return fmt.Sprintf("%v:%v: %v: %v", e.File, e.Line, e.Decl, e.Reason)
}
