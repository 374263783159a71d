package di

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mikey/drug-checker/internal/config"
)

// Options contains the command line overrides applied on top of the
// configuration file
type Options struct {
	ConfigFile string
	DataDir    string
	Verbose    bool
	JSONLog    bool

	// In and Out default to stdin and stdout
	In  io.Reader
	Out io.Writer
}

func (o Options) input() io.Reader {
	if o.In == nil {
		return os.Stdin
	}
	return o.In
}

func (o Options) output() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// loadConfig reads the configuration and applies the overrides
func loadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.New(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	if opts.DataDir != "" {
		cfg.Set("storage.data_dir", opts.DataDir)
		cfg.Set("storage.sqlite_path", filepath.Join(opts.DataDir, "drug_checker.db"))
	}
	return cfg, nil
}
