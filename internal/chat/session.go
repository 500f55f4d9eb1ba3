package chat

import "time"

// State names the conversation step waiting for the next user input.
type State string

const (
	StateProjectSelect State = "project-select"
	StateProjectManual State = "project-manual"
	StateVideo         State = "video"
	StateMCQ           State = "mcq"
	StateMCQRetry      State = "mcq_retry"
	StateName          State = "name"
	StatePhone         State = "phone"
	StatePIN           State = "pin"
	StateWhatsapp      State = "whatsapp"
	StateGender        State = "gender"
	StateReference     State = "reference"
	StateRetry         State = "register_retry"
	StateDone          State = "done"
)

// Question is one multiple-choice gate question. Answer is the correct option
// letter and never leaves the server.
type Question struct {
	Question string `json:"question"`
	OptionA  string `json:"option_a"`
	OptionB  string `json:"option_b"`
	OptionC  string `json:"option_c"`
	OptionD  string `json:"option_d"`
	Answer   string `json:"answer"`
}

// Project is the conversation's view of a campaign project.
type Project struct {
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	YoutubeURL string     `json:"youtube_url,omitempty"`
	Questions  []Question `json:"questions,omitempty"`
}

// Session is the full server-side conversation state. It is the unit stored
// in Redis between turns; every transition rewrites it as a whole.
type Session struct {
	ID    string `json:"id"`
	State State  `json:"state"`

	// Projects is the directory snapshot taken at start; selections resolve
	// against it so a mid-conversation directory change cannot skew the flow.
	Projects []Project `json:"projects,omitempty"`
	Project  *Project  `json:"project,omitempty"`

	MCQIndex   int      `json:"mcq_index"`
	MCQAnswers []string `json:"mcq_answers,omitempty"`

	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	PIN       string `json:"pin,omitempty"`
	Whatsapp  string `json:"whatsapp,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Reference string `json:"reference,omitempty"`

	// Blocked marks the duplicate-phone dead end: the session stays in the
	// phone state and no input can move it forward.
	Blocked bool `json:"blocked,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// reset clears everything collected so far, keeping only the session identity.
// Used by the whole-flow retry after a failed registration.
func (s *Session) reset() {
	s.State = StateProjectSelect
	s.Projects = nil
	s.Project = nil
	s.MCQIndex = 0
	s.MCQAnswers = nil
	s.Name = ""
	s.Phone = ""
	s.PIN = ""
	s.Whatsapp = ""
	s.Gender = ""
	s.Reference = ""
	s.Blocked = false
}

// resetMCQ drops all recorded answers and returns the quiz to the first
// question. A wrong answer always restarts the whole gate.
func (s *Session) resetMCQ() {
	s.MCQIndex = 0
	s.MCQAnswers = nil
}

// Option is a button the client may render for the next input.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Message is one bot message in a reply.
type Message struct {
	Text     string   `json:"text,omitempty"`
	VideoURL string   `json:"video_url,omitempty"`
	VideoID  string   `json:"video_id,omitempty"`
	Options  []Option `json:"options,omitempty"`
}

// Reply is the engine's output for one turn.
type Reply struct {
	SessionID string      `json:"session_id"`
	State     State       `json:"state"`
	Messages  []Message   `json:"messages"`
	Done      bool        `json:"done,omitempty"`
	Token     string      `json:"token,omitempty"`
	User      interface{} `json:"user,omitempty"`
}

func text(msgs ...string) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Message{Text: m})
	}
	return out
}
