package config

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Valid DefaultEOL values.
const (
	EOLAuto = "auto" // detect from content, LF on ties
	EOLLF   = "lf"
	EOLCRLF = "crlf"
)

// Options holds every engine option.
type Options struct {
	// DefaultEOL is the end-of-line preference used when input text
	// has no clear majority: "lf", "crlf", or "auto".
	DefaultEOL string `toml:"default_eol"`

	// TrimAutoWhitespace enables trimming of automatically inserted
	// trailing whitespace that the next real edit leaves untouched.
	TrimAutoWhitespace bool `toml:"trim_auto_whitespace"`

	// UndoStackSize bounds the number of recorded undo steps.
	UndoStackSize int `toml:"undo_stack_size"`

	// LogLevel selects the logger verbosity (debug, info, warn, error).
	LogLevel string `toml:"log_level"`
}

// DefaultOptions returns the options used when no file is present.
func DefaultOptions() Options {
	return Options{
		DefaultEOL:         EOLAuto,
		TrimAutoWhitespace: true,
		UndoStackSize:      1000,
		LogLevel:           "info",
	}
}

// Validate checks option values, returning the first problem found.
func (o Options) Validate() error {
	switch o.DefaultEOL {
	case EOLAuto, EOLLF, EOLCRLF:
	default:
		return fmt.Errorf("invalid default_eol %q (want auto, lf or crlf)", o.DefaultEOL)
	}
	if o.UndoStackSize < 0 {
		return fmt.Errorf("invalid undo_stack_size %d", o.UndoStackSize)
	}
	return nil
}

// Load reads options from the TOML file at path.
// A missing file is not an error; defaults are returned.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultOptions(), nil
		}
		return Options{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(data)
}

// LoadFromReader reads options from an io.Reader.
func LoadFromReader(r io.Reader) (Options, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Options{}, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := toml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Reader provides polled read access to a config file: every Current
// call re-checks the file's modification time and reloads when it
// changed. Consumers poll; nothing is pushed.
type Reader struct {
	path string

	mu      sync.Mutex
	opts    Options
	modTime time.Time
	loaded  bool
}

// NewReader creates a reader for the given path. The file is not
// touched until the first Current call.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Current returns the current options, reloading the file if it
// changed since the last call. Load errors keep the previous options.
func (r *Reader) Current() Options {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, err := os.Stat(r.path)
	if err != nil {
		if !r.loaded {
			r.opts = DefaultOptions()
			r.loaded = true
		}
		return r.opts
	}
	if r.loaded && info.ModTime().Equal(r.modTime) {
		return r.opts
	}

	opts, err := Load(r.path)
	if err == nil {
		r.opts = opts
	} else if !r.loaded {
		r.opts = DefaultOptions()
	}
	r.modTime = info.ModTime()
	r.loaded = true
	return r.opts
}
