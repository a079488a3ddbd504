package core

// Course is an externally-sourced course record. The orchestrator holds at
// most a cached, possibly stale copy inside session state; the repository
// remains the owner.
type Course struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Level       string         `json:"level,omitempty"`
	Session     string         `json:"session,omitempty"`
	Instructor  string         `json:"instructor,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

// UserProfile is an externally-sourced user record supplied by the caller on
// a turn and merged into user-scoped state.
type UserProfile struct {
	UserID      string            `json:"userId"`
	Name        string            `json:"name"`
	Email       string            `json:"email,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
	Courses     []Course          `json:"courses,omitempty"`
}

// Assessment is a generated artifact (quiz, exam or assignment) produced by
// the assessment-generation step.
type Assessment struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	CourseID       string         `json:"course_id,omitempty"`
	Type           string         `json:"type"`
	Difficulty     string         `json:"difficulty,omitempty"`
	Questions      []Question     `json:"questions"`
	AnswerKey      map[string]any `json:"answer_key,omitempty"`
	TotalQuestions int            `json:"total_questions"`
}

// Question is a single assessment item aligned with an objective and a
// taxonomy level.
type Question struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Text          string   `json:"text"`
	BloomLevel    string   `json:"bloom_level,omitempty"`
	Options       []Option `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

// Option is one answer choice for closed question types.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
