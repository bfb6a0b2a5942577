package buffer

import (
	"github.com/calvinalkan/mag/pkg/overlay"
	"github.com/calvinalkan/mag/pkg/search"
	"github.com/calvinalkan/mag/pkg/tokenizer"
)

// Mode bundles the per-buffer configuration that spec.md §4.10
// attaches a buffer to: which tokenizer drives its Token_Cache, the
// check-point interval that tokenizer runs at, the overlay pipeline
// rendered over it, and the case policy its search commands default
// to.
//
// Grounded structurally on internal/ticket/config.go's flat options
// bundle loaded once and threaded through by value.
type Mode struct {
	Tokenize           tokenizer.TokenizeFunc
	CheckPointInterval int

	Overlays *overlay.Pipeline

	SearchPromptCaseHandling   search.CaseHandling
	SearchContinueCaseHandling search.CaseHandling

	IndentWidth   int
	TabsNotSpaces bool
}

// DefaultCheckPointInterval is the fallback Token_Cache interval (bytes
// between check-points) used when a Mode does not set one.
const DefaultCheckPointInterval = 2048

// normalized returns m with zero-value fields filled with sane
// defaults, the way New treats an incompletely populated Mode.
func (m Mode) normalized() Mode {
	if m.CheckPointInterval <= 0 {
		m.CheckPointInterval = DefaultCheckPointInterval
	}

	if m.Overlays == nil {
		m.Overlays = overlay.NewPipeline()
	}

	return m
}
