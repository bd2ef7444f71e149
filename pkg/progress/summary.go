package progress

type Message struct {
	Text string   `json:"text"`
	Type Severity `json:"type"`
}

// Summary is the projection served to pollers.
type Summary struct {
	Messages []Message `json:"messages"`
	Status   Status    `json:"status"`
	Result   string    `json:"result,omitempty"`
}

// Summarize folds a task's entries into a Summary. Status is the last
// non-empty status seen, or running when none was set. Result is the last
// non-empty result.
func Summarize(entries []Entry) Summary {
	s := Summary{
		Messages: make([]Message, 0, len(entries)),
		Status:   StatusRunning,
	}
	for _, e := range entries {
		s.Messages = append(s.Messages, Message{Text: e.Message, Type: e.Severity})
		if e.Status != StatusNone {
			s.Status = e.Status
		}
		if e.Result != "" {
			s.Result = e.Result
		}
	}
	return s
}

// Done reports whether the summary reached a terminal status.
func (s Summary) Done() bool {
	return s.Status == StatusComplete || s.Status == StatusError
}
