package entities

// TestimonySegment is the transcript of one tape of one interview
// session. The archive additionally maintains a full-text index over a
// per-person aggregation of these segments.
type TestimonySegment struct {
	InterviewCode int64
	TapeNumber    int
	Text          string
}

// TapeRef identifies one tape of a session without carrying its text.
type TapeRef struct {
	InterviewCode int64
	TapeNumber    int
}
