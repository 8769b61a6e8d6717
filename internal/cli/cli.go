// Package cli holds argument handling shared by the RANP commands.
package cli

import (
	"flag"

	"github.com/reallyoldfogie/ranp-go/internal/config"
)

// Parse parses args with fs, allowing flags before, between and after
// positional arguments. Everything after a "--" is positional.
func Parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		before := len(args)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		// flag consumes a "--" terminator without leaving a trace in
		// fs.Args, so compare against what was handed in.
		consumed := before - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// IsSet reports whether any of names was given on the command line.
func IsSet(fs *flag.FlagSet, names ...string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		for _, n := range names {
			if f.Name == n {
				set = true
			}
		}
	})
	return set
}

// LoadConfig returns the file at path, or the defaults when path is empty.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
