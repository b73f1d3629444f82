// Package errors provides coded, actionable errors for pageroute.
//
// Every error carries a code (e.g. "E201") registered with a category, a
// short message and a longer explanation. Callers add the page file or
// configuration file involved, a hint and the wrapped cause:
//
//	err := errors.New("E201").
//	    WithFile("./user/index").
//	    WithSuggestion("Page files must look like ./<dir>/index.go")
//
//	fmt.Println(err.Format())
//	// ERROR E201: Malformed page file
//	//
//	//   ./user/index
//	//
//	//   Hint: Page files must look like ./<dir>/index.go
//
// Errors wrap their cause so errors.Is and errors.As keep working across
// package boundaries.
package errors
