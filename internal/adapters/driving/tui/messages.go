package tui

import (
	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
)

// streamStartedMsg carries the chunk channel of a reply that just began
// streaming. The app then pumps it with streamNextCmd.
type streamStartedMsg struct {
	chunks <-chan driven.StreamChunk
}

// streamChunkMsg delivers one text delta of the streaming reply.
type streamChunkMsg struct {
	chunks  <-chan driven.StreamChunk
	content string
}

// streamDoneMsg signals the end of the streaming reply.
type streamDoneMsg struct{}

// streamErrMsg reports a failure while sending or streaming.
type streamErrMsg struct {
	err error
}

// diagMsg delivers the outcome of a credential recheck.
type diagMsg struct {
	result domain.DiagnosticResult
}
