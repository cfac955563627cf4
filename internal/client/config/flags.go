package config

import (
	"flag"
	"io"
	"time"
)

// parseFlags populates Config fields from command-line flags and returns the
// positional arguments left after them.
//
// Supported flags:
//
//	-a string   base URL of the server (default from Config)
//	-f string   token file path
//	-t int      request timeout in seconds
//	-c/-config  JSON config file, consumed by parseJson
//
// The client owns its whole command line, so unlike the server it parses
// args directly instead of filtering them first.
func parseFlags(cfg *Config, args []string) []string {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the auth server")
	fs.StringVar(&cfg.TokenFile, "f", cfg.TokenFile, "token file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	var ignored string
	fs.StringVar(&ignored, "c", "", "Path to config file (short)")
	fs.StringVar(&ignored, "config", "", "Path to config file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})

	return fs.Args()
}
