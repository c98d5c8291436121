// Package parsers converts source documents into ordered page blocks.
//
// Each file format lives in its own subpackage (pdf, markdown, plaintext)
// and implements the driven.Parser port. The Registry in this package
// dispatches to the right parser by file extension and fails with
// domain.ErrUnsupportedFormat for everything else.
package parsers
