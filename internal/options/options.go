// Package options contains the program options.
package options

// Program options of the converter.
type Program struct {
	Source string // .moo/.moo.gz file or directory to convert
	Output string // output JSON file or directory

	Workers int  // number of files converted concurrently
	Touch   bool // bump output mtimes into test group order after a batch
	Debug   bool
	Quiet   bool
}
