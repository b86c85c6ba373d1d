package assert

// NotNil panics when the given value is nil.
func NotNil(v interface{}) {
	if v == nil {
		panic("assert: value is nil")
	}
}

// NotCircular is a marker used inside singleton accessors to flag
// accidental re-entrant initialization during review.
func NotCircular() {}
