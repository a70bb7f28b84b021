package tui

import (
	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
)

// askCompletedMsg carries the outcome of one ask back to the model.
type askCompletedMsg struct {
	Answer *driving.Answer
	Err    error
}

// statsLoadedMsg carries the index statistics for the header line.
type statsLoadedMsg struct {
	Stats domain.CollectionStats
	Err   error
}
