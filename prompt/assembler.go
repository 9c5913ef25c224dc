// Package prompt assembles the source-code context attached to a user
// message before it is sent to the inference server. Text comes from host
// providers (editor selection, active file, open files); this package only
// decides which sources to pull and how the final block is laid out.
package prompt

import "context"

// Flags selects which context sources to include with a request.
type Flags struct {
	Selection  bool
	ActiveFile bool
	OpenFiles  bool
}

// File is one open editor document: its path and full text.
type File struct {
	Path string
	Text string
}

// Sources exposes the host editor's text providers. The bool result reports
// presence: (text, false) means the source has nothing right now (no
// selection, no active document), while ("", true) is a present but empty
// source. Providers may block briefly; they receive the request context.
type Sources interface {
	Selection(ctx context.Context) (string, bool)
	ActiveFile(ctx context.Context) (string, bool)
	OpenFiles(ctx context.Context) []File
}

// NoSources is a Sources with nothing present. It is the default when the
// orchestrator is constructed without providers.
type NoSources struct{}

func (NoSources) Selection(context.Context) (string, bool)  { return "", false }
func (NoSources) ActiveFile(context.Context) (string, bool) { return "", false }
func (NoSources) OpenFiles(context.Context) []File          { return nil }

// Build pulls the flagged sources into an immutable Bundle. A source is
// absent from the bundle when its flag is unset or when the provider
// reported nothing present; a provider that returns an empty-but-present
// string stays in the bundle as an empty section.
func Build(ctx context.Context, src Sources, flags Flags) Bundle {
	var b Bundle

	if flags.Selection {
		if text, ok := src.Selection(ctx); ok {
			b.Selection = &text
		}
	}
	if flags.ActiveFile {
		if text, ok := src.ActiveFile(ctx); ok {
			b.ActiveFile = &text
		}
	}
	if flags.OpenFiles {
		b.OpenFiles = src.OpenFiles(ctx)
	}

	return b
}
