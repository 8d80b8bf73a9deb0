package ast

// HierarchyError reports an attempted parent/child relationship that violates
// a variant's capabilities.
type HierarchyError struct {
	Message string
}

func (e *HierarchyError) Error() string {
	return "pdxscript: hierarchy error: " + e.Message
}

// RenderError reports a quoting-mode invariant violated while producing
// source text.
type RenderError struct {
	Message string
}

func (e *RenderError) Error() string {
	return "pdxscript: render error: " + e.Message
}
