package option

import (
	"github.com/mlaforet/cdkit/pkg/logging"
	"github.com/spf13/afero"
)

type OpenOptions struct {
	ParseOnOpen     bool
	ElToritoEnabled bool
	FileSystem      afero.Fs
	Logger          *logging.Logger
}

type OpenOption func(*OpenOptions)

// WithParseOnOpen sets whether the descriptor sequence is walked when the
// image is opened. When disabled, Parse must be called before the decoded
// structures are available.
func WithParseOnOpen(parseOnOpen bool) OpenOption {
	return func(o *OpenOptions) {
		o.ParseOnOpen = parseOnOpen
	}
}

// WithElToritoEnabled sets whether the boot catalog is decoded when a parse
// finds an El Torito boot record.
func WithElToritoEnabled(elToritoEnabled bool) OpenOption {
	return func(o *OpenOptions) {
		o.ElToritoEnabled = elToritoEnabled
	}
}

// WithFileSystem sets the filesystem the image path is resolved against.
func WithFileSystem(fs afero.Fs) OpenOption {
	return func(o *OpenOptions) {
		o.FileSystem = fs
	}
}

func WithLogger(logger *logging.Logger) OpenOption {
	return func(o *OpenOptions) {
		o.Logger = logger
	}
}
