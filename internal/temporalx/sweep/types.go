package sweep

const (
	WorkflowName = "translation_sweep"
	ActivityRun  = "translation_sweep_run"
)

type Input struct {
	Trigger                string `json:"trigger"`
	ActivityTimeoutSeconds int    `json:"activity_timeout_seconds,omitempty"`
}

// Summary is the compact result recorded in workflow history.
type Summary struct {
	Trigger             string `json:"trigger"`
	EntitiesProcessed   int    `json:"entities_processed"`
	TranslationsWritten int    `json:"translations_written"`
	FailedUnits         int    `json:"failed_units"`
	RemainingGaps       int    `json:"remaining_gaps"`
	MoreRemaining       bool   `json:"more_remaining"`
	TimedOut            bool   `json:"timed_out"`
	ElapsedMS           int64  `json:"elapsed_ms"`
}
