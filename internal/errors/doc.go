// Package errors provides structured, actionable errors for the vhead
// command line and file loaders.
//
// Each error has a unique code (e.g., "H201") that maps to a category, a
// short message and a detailed explanation. Errors can carry the location
// in a declaration or config file, the surrounding lines and a hint.
//
// # Error Categories
//
//   - config: project config files (H100-H199)
//   - declaration: declaration files (H200-H299)
//   - document: HTML documents read or written by the CLI (H300-H399)
//   - cli: command usage and serving (H400-H499)
//
// # Usage
//
//	err := errors.New("H201").
//	    WithLocation("pages/home.yaml", 4, 3).
//	    WithSuggestion("Indent list items under meta with two spaces").
//	    Wrap(yamlErr)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR H201: Invalid declaration file syntax
//	//
//	//   pages/home.yaml:4:3
//	//
//	//        2 │ meta:
//	//        3 │ - name: description
//	//   →    4 │   content: [
//	//          │   ^
//	//
//	//   Hint: Indent list items under meta with two spaces
package errors
