// Package report renders reconciliation runs.
//
// TSVWriter produces the tab-separated report file that is the primary
// output of a run. MarkdownWriter and JSONWriter render the same run for
// sharing and tool integration, and SimpleWriter prints the console
// summary. All of them implement Writer.
package report
