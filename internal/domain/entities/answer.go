package entities

// Answer is one standardized-question / free-text-answer pair attributed
// to a person. The archive guarantees no duplicated Person+Question+Answer
// rows.
type Answer struct {
	PersonID      PersonID
	InterviewCode int64
	Question      string
	Text          string
}

// QuestionAnswer is a selected question/answer facet value.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuestionCount counts distinct persons that gave any answer to a
// question, used for place summaries.
type QuestionCount struct {
	Question string
	Count    int
}
