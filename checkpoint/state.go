package checkpoint

import "time"

// FailureInfo is the recorded reason a URL failed processing, kept
// alongside ProcessedURLs rather than discarded so a run's Stats() can
// report error counts without re-reading logs.
type FailureInfo struct {
	ErrorType    string    `json:"error_type"`
	ErrorMessage string    `json:"error_message"`
	Timestamp    time.Time `json:"timestamp"`
}

// state is the durable shape of one checkpoint, identified by a key of
// the form "<doc-type>_<min-year>_<max-year>_<sorted-subtypes>". It is
// the unit that gets marshaled to and from the checkpoint file.
type state struct {
	ProcessedURLs         map[string]map[string]any `json:"processed_urls"`
	FailedURLs            map[string]FailureInfo    `json:"failed_urls"`
	CompletedCombinations map[string]bool           `json:"completed_combinations"`
	Positions             map[string]any            `json:"positions"`
	Metadata              map[string]any            `json:"metadata"`
}

func newState() *state {
	return &state{
		ProcessedURLs:         make(map[string]map[string]any),
		FailedURLs:            make(map[string]FailureInfo),
		CompletedCombinations: make(map[string]bool),
		Positions:             make(map[string]any),
		Metadata:              make(map[string]any),
	}
}

// Stats summarizes a checkpoint's state for progress logging.
type Stats struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Completed int `json:"completed"`
}

func (s *state) stats() Stats {
	return Stats{
		Processed: len(s.ProcessedURLs),
		Failed:    len(s.FailedURLs),
		Completed: len(s.CompletedCombinations),
	}
}
