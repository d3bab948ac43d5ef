package forge

import (
	"time"

	"github.com/olympiadforge/forge/internal/workbench"
)

// resultMsg carries a finished generation step back to the event loop.
type resultMsg struct {
	Result workbench.Result
}

// spinnerTickMsg animates the busy indicator.
type spinnerTickMsg time.Time

// diagramMountedMsg is sent once the diagram source has been executed.
type diagramMountedMsg struct {
	Source string
}
