package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewAnalysisID returns an identifier like analysis_20260823_142500_1a2b3c4d.
// The random suffix keeps ids unique across concurrent batch items started
// in the same second.
func NewAnalysisID() string {
	stamp := time.Now().UTC().Format("20060102_150405")
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("analysis_%s_%s", stamp, suffix)
}
