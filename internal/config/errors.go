package config

import (
	"strings"

	"github.com/pkg/errors"
)

// ConfigError reports a problem with the run's configuration (a
// missing required field, or a value outside its allowed range).
// IOError and ResourceError are the other two kinds of run-ending
// error named in spec §7: a config problem is caught before any file
// is opened, an I/O error happens while reading/writing a file that
// should exist, and a resource error happens when the environment
// can't support the run (e.g. too little memory to map the index).
type ConfigError struct {
	Field string
	cause error
}

func (e *ConfigError) Error() string {
	return "config: " + e.Field + ": " + e.cause.Error()
}

func (e *ConfigError) Unwrap() error { return e.cause }

func newConfigError(field, msg string) *ConfigError {
	return &ConfigError{Field: field, cause: errors.New(msg)}
}

// IOError wraps a failure reading or writing a named file.
type IOError struct {
	Path  string
	cause error
}

func (e *IOError) Error() string {
	return "io: " + e.Path + ": " + e.cause.Error()
}

func (e *IOError) Unwrap() error { return e.cause }

// NewIOError wraps cause as an IOError naming path, for use by callers
// outside this package (the index loader, the fastq reader's callers,
// and so on) that need to surface a file failure through the same
// three-way error classification the CLI layer maps to exit codes.
func NewIOError(path string, cause error) error {
	return &IOError{Path: path, cause: cause}
}

// ResourceError reports that the runtime environment can't support
// the requested run (insufficient memory to map the index, too many
// threads requested for the machine, and the like).
type ResourceError struct {
	cause error
}

func (e *ResourceError) Error() string {
	return "resource: " + e.cause.Error()
}

func (e *ResourceError) Unwrap() error { return e.cause }

// NewResourceError wraps cause as a ResourceError.
func NewResourceError(cause error) error {
	return &ResourceError{cause: cause}
}

// Validate checks every constraint spec §7.1 names, returning the
// first violation found as a *ConfigError. ApplyDefaults should be
// called first; Validate does not fill in defaults itself; so a field
// left at its zero value here is treated as genuinely missing.
func (c *Config) Validate() error {
	if c.IndexPath == "" {
		return newConfigError("IndexPath", "index path must be specified")
	}
	if !strings.HasSuffix(c.IndexPath, ".dbindex") {
		return newConfigError("IndexPath", "index path must end in .dbindex")
	}
	if c.OutputPath == "" {
		return newConfigError("OutputPath", "output path must be specified")
	}
	if c.ReadFileName == "" && !c.PairedEnd() {
		return newConfigError("ReadFileName", "either ReadFileName or both mate file names must be specified")
	}
	if c.ReadFileName != "" && c.PairedEnd() {
		return newConfigError("ReadFileName", "ReadFileName and the paired mate files are mutually exclusive")
	}
	if (c.Mate1FileName == "") != (c.Mate2FileName == "") {
		return newConfigError("Mate2FileName", "both mate file names must be specified together")
	}
	for _, f := range []struct{ field, names string }{
		{"ReadFileName", c.ReadFileName},
		{"Mate1FileName", c.Mate1FileName},
		{"Mate2FileName", c.Mate2FileName},
	} {
		if f.names == "" {
			continue
		}
		for _, name := range strings.Split(f.names, ",") {
			if !strings.HasSuffix(name, ".fastq") && !strings.HasSuffix(name, ".fq") {
				return newConfigError(f.field, "reads file "+name+" must end in .fastq or .fq")
			}
		}
	}
	if c.MaxMismatches < 0 {
		return newConfigError("MaxMismatches", "must not be negative")
	}
	if c.NReadsToProcess <= 0 {
		return newConfigError("NReadsToProcess", "must be positive")
	}
	if c.NReadsToProcess > MaxNReadsToProcess {
		return newConfigError("NReadsToProcess", "exceeds the maximum allowed reads per run")
	}
	if c.BucketCap <= 0 {
		return newConfigError("BucketCap", "must be positive")
	}
	if c.TopK < MinTopK || c.TopK > MaxTopK {
		return newConfigError("TopK", "must be between 2 and 300")
	}
	if c.FragRange <= 0 {
		return newConfigError("FragRange", "must be positive")
	}
	if c.NumThreads <= 0 {
		return newConfigError("NumThreads", "must be positive")
	}
	if c.OutputFormat != "" && c.OutputFormat != "sam" && c.OutputFormat != "mr" {
		return newConfigError("OutputFormat", "must be 'sam' or 'mr'")
	}
	return nil
}
