package ui

import _ "embed"

// DefaultStylesheet styles the planner panels. A file given by the user replaces it.
//
//go:embed planner.css
var DefaultStylesheet string
