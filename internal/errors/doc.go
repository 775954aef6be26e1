// Package errors provides structured, coded error messages for hart.
//
// Every failure the engine reports carries a stable code (e.g., "E001")
// registered in a central table. The code maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Error Categories
//
//   - build: tree construction failures (list keys, fragments, invalid children)
//   - hooks: hook misuse inside components (order changes, calls outside render)
//   - patch: internal invariant violations reaching the DOM patcher
//   - config: hart.json / hart.yaml problems
//   - cli: command line failures
//
// # Usage
//
//	err := errors.New("E001").
//	    WithDetail(`list member at position 2 has no "key" attribute`).
//	    WithSuggestion(`Give every element of a []*vdom.Lazy a unique "key"`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E001: List member key missing or duplicated
//	//
//	//   list member at position 2 has no "key" attribute
//	//
//	//   Hint: Give every element of a []*vdom.Lazy a unique "key"
//	//
//	//   Learn more: https://hart.dev/docs/errors/E001
package errors
