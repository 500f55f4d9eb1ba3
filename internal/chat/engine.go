package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bikrans/platform-api/internal/utils"
)

// ProjectDirectory lists the projects a new member may register under.
type ProjectDirectory interface {
	ListActive() ([]Project, error)
}

// PhoneChecker reports whether a phone number already has an account.
type PhoneChecker interface {
	Exists(phone string) (bool, error)
}

// Registration is the payload handed to the Registrar at the end of a
// successful conversation. The PIN doubles as the account password.
type Registration struct {
	Name        string
	Phone       string
	Password    string
	Whatsapp    string
	Gender      string
	Reference   string
	ProjectCode string
}

// RegistrationResult carries the auto-login material back to the client.
type RegistrationResult struct {
	Token string
	User  interface{}
}

// Registrar creates the member account. A failure message is shown to the
// user verbatim.
type Registrar interface {
	Register(reg Registration) (*RegistrationResult, error)
}

// Engine drives the registration conversation. Each turn consumes exactly one
// user input, produces bot messages, and moves the session to its next state.
// All state lives in the Store; the engine itself is stateless and safe for
// concurrent use across sessions.
type Engine struct {
	projects  ProjectDirectory
	phones    PhoneChecker
	registrar Registrar
	store     *Store
}

// NewEngine creates a conversation engine.
func NewEngine(projects ProjectDirectory, phones PhoneChecker, registrar Registrar, store *Store) *Engine {
	return &Engine{projects: projects, phones: phones, registrar: registrar, store: store}
}

const (
	inputVideoWatched = "video_watched"
	inputRetryMCQ     = "retry_mcq"
	inputRetry        = "retry"
	inputSkip         = "skip"
)

// Start opens a new conversation: greets, fetches the project directory once,
// and asks for a project. When the directory is empty or unavailable the
// conversation falls back to manual code entry.
func (e *Engine) Start(ctx context.Context) (*Reply, error) {
	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}

	reply := &Reply{SessionID: session.ID}
	reply.Messages = append(reply.Messages, text(
		"👋 হ্যালো! বিক্রান্সে আপনাকে স্বাগতম!",
		"আমি আপনাকে নিবন্ধন প্রক্রিয়ায় সাহায্য করব। এটি খুব সহজ এবং মাত্র কয়েক মিনিট সময় নেবে। 😊",
	)...)

	e.promptProject(session, reply)

	if err := e.save(ctx, session, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// Advance feeds one user input into an existing conversation.
func (e *Engine) Advance(ctx context.Context, sessionID, input string) (*Reply, error) {
	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	input = strings.TrimSpace(input)
	reply := &Reply{SessionID: session.ID}

	switch session.State {
	case StateProjectSelect:
		e.handleProjectSelect(session, reply, input)
	case StateProjectManual:
		e.handleProjectManual(session, reply, input)
	case StateVideo:
		e.handleVideo(session, reply, input)
	case StateMCQ:
		e.handleMCQ(session, reply, input)
	case StateMCQRetry:
		e.handleMCQRetry(session, reply)
	case StateName:
		e.handleName(session, reply, input)
	case StatePhone:
		e.handlePhone(session, reply, input)
	case StatePIN:
		e.handlePIN(session, reply, input)
	case StateWhatsapp:
		e.handleWhatsapp(session, reply, input)
	case StateGender:
		e.handleGender(session, reply, input)
	case StateReference:
		e.handleReference(session, reply, input)
	case StateRetry:
		e.handleRegisterRetry(session, reply, input)
	case StateDone:
		reply.Messages = text("নিবন্ধন ইতিমধ্যে সম্পন্ন হয়েছে। ✅")
	default:
		return nil, fmt.Errorf("unknown conversation state: %s", session.State)
	}

	if err := e.save(ctx, session, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (e *Engine) save(ctx context.Context, session *Session, reply *Reply) error {
	session.UpdatedAt = time.Now()
	reply.State = session.State
	if reply.Done {
		return e.store.Delete(ctx, session.ID)
	}
	return e.store.Save(ctx, session)
}

// promptProject lists the directory, falling back to manual code entry when
// it is empty or unreachable.
func (e *Engine) promptProject(session *Session, reply *Reply) {
	projects, err := e.projects.ListActive()
	if err != nil {
		reply.Messages = append(reply.Messages,
			Message{Text: "প্রজেক্ট লোড করতে সমস্যা হচ্ছে। দয়া করে আপনার প্রজেক্ট কোডটি টাইপ করুন।"})
		session.State = StateProjectManual
		return
	}
	if len(projects) == 0 {
		reply.Messages = append(reply.Messages, text(
			"দুঃখিত, বর্তমানে কোনো প্রজেক্ট পাওয়া যাচ্ছে না।",
			"দয়া করে আপনার প্রজেক্ট কোডটি টাইপ করুন।",
		)...)
		session.State = StateProjectManual
		return
	}

	session.Projects = projects
	options := make([]Option, 0, len(projects))
	for _, p := range projects {
		options = append(options, Option{
			Label: fmt.Sprintf("%s (%s)", p.Name, p.Code),
			Value: p.Code,
		})
	}
	reply.Messages = append(reply.Messages,
		Message{Text: "প্রথমে আপনি কোন প্রজেক্টের অধীনে নিবন্ধন করতে চান তা নির্বাচন করুন 👇", Options: options})
	session.State = StateProjectSelect
}

func (e *Engine) handleProjectSelect(session *Session, reply *Reply, input string) {
	var selected *Project
	for i := range session.Projects {
		if strings.EqualFold(session.Projects[i].Code, input) {
			selected = &session.Projects[i]
			break
		}
	}
	if selected == nil {
		// Unknown code: treat it as a manual entry.
		e.handleProjectManual(session, reply, input)
		return
	}

	session.Project = selected
	reply.Messages = append(reply.Messages,
		Message{Text: fmt.Sprintf("আপনি %q প্রজেক্ট নির্বাচন করেছেন। ✅", selected.Name)})

	if selected.YoutubeURL != "" {
		reply.Messages = append(reply.Messages,
			Message{Text: "অনুগ্রহ করে প্রজেক্টে জয়েন করার আগে এই ভিডিওটি সম্পূর্ণ দেখুন। দেখা শেষ হয়ে গেলে নিচের প্রশ্নের উত্তর দিন। সঠিক উত্তর দিলেই আপনি নিবন্ধন করার যোগ্য বলে বিবেচিত হবেন। 📹"})
		e.embedVideo(session, reply)
		session.State = StateVideo
		return
	}

	reply.Messages = append(reply.Messages,
		Message{Text: "চলুন শুরু করা যাক! আপনার পুরো নাম কি?"})
	session.State = StateName
}

func (e *Engine) handleProjectManual(session *Session, reply *Reply, input string) {
	if input == "" {
		reply.Messages = text("দয়া করে আপনার প্রজেক্ট কোডটি টাইপ করুন।")
		session.State = StateProjectManual
		return
	}
	// A manually typed code skips the video gate: the directory snapshot has
	// no record to gate with.
	session.Project = &Project{Code: input}
	reply.Messages = text(
		"প্রজেক্ট কোড নোট করা হয়েছে। ✅",
		"চলুন শুরু করা যাক! আপনার পুরো নাম কি?",
	)
	session.State = StateName
}

func (e *Engine) embedVideo(session *Session, reply *Reply) {
	url := session.Project.YoutubeURL
	reply.Messages = append(reply.Messages, Message{
		VideoURL: url,
		VideoID:  utils.ExtractYouTubeID(url),
	})
	reply.Messages = append(reply.Messages, Message{
		Options: []Option{{Label: "✅ ভিডিও দেখেছি, এখন প্রশ্ন করুন", Value: inputVideoWatched}},
	})
}

func (e *Engine) handleVideo(session *Session, reply *Reply, input string) {
	if input != inputVideoWatched {
		reply.Messages = append(reply.Messages, Message{
			Options: []Option{{Label: "✅ ভিডিও দেখেছি, এখন প্রশ্ন করুন", Value: inputVideoWatched}},
		})
		return
	}

	if len(session.Project.Questions) > 0 {
		session.resetMCQ()
		e.showQuestion(session, reply)
		session.State = StateMCQ
		return
	}

	reply.Messages = append(reply.Messages,
		Message{Text: "চলুন শুরু করা যাক! আপনার পুরো নাম কি?"})
	session.State = StateName
}

func (e *Engine) showQuestion(session *Session, reply *Reply) {
	q := session.Project.Questions[session.MCQIndex]
	reply.Messages = append(reply.Messages,
		Message{Text: fmt.Sprintf("প্রশ্ন %d: %s", session.MCQIndex+1, q.Question)})
	reply.Messages = append(reply.Messages, Message{
		Options: []Option{
			{Label: "ক) " + q.OptionA, Value: "a"},
			{Label: "খ) " + q.OptionB, Value: "b"},
			{Label: "গ) " + q.OptionC, Value: "c"},
			{Label: "ঘ) " + q.OptionD, Value: "d"},
		},
	})
}

func (e *Engine) handleMCQ(session *Session, reply *Reply, input string) {
	q := session.Project.Questions[session.MCQIndex]
	if strings.EqualFold(input, q.Answer) {
		session.MCQAnswers = append(session.MCQAnswers, strings.ToLower(input))
		session.MCQIndex++
		reply.Messages = append(reply.Messages, Message{Text: "সঠিক উত্তর! ✅"})

		if session.MCQIndex < len(session.Project.Questions) {
			e.showQuestion(session, reply)
			return
		}

		reply.Messages = append(reply.Messages, text(
			"অভিনন্দন! 🎉 আপনি সকল প্রশ্নের সঠিক উত্তর দিয়েছেন।",
			"এখন আপনি নিবন্ধন করতে পারবেন। চলুন শুরু করা যাক! আপনার পুরো নাম কি?",
		)...)
		session.State = StateName
		return
	}

	// A single wrong answer voids the whole quiz: back to the video.
	session.resetMCQ()
	reply.Messages = append(reply.Messages, text(
		"দুঃখিত, উত্তরটি সঠিক নয়। ❌",
		"অনুগ্রহ করে ভিডিওটি আবার মনোযোগ দিয়ে দেখুন এবং পুনরায় চেষ্টা করুন।",
	)...)
	reply.Messages = append(reply.Messages, Message{
		Options: []Option{{Label: "🔄 পুনরায় চেষ্টা করুন", Value: inputRetryMCQ}},
	})
	session.State = StateMCQRetry
}

func (e *Engine) handleMCQRetry(session *Session, reply *Reply) {
	reply.Messages = append(reply.Messages,
		Message{Text: "অনুগ্রহ করে ভিডিওটি আবার দেখুন এবং প্রশ্নের উত্তর দিন। 📹"})
	e.embedVideo(session, reply)
	session.State = StateVideo
}

func (e *Engine) handleName(session *Session, reply *Reply, input string) {
	if len(input) < 3 {
		reply.Messages = text("নামটি খুব ছোট মনে হচ্ছে। দয়া করে আপনার পুরো নাম লিখুন।")
		return
	}
	session.Name = input
	reply.Messages = text(
		fmt.Sprintf("ধন্যবাদ %s! আপনার সাথে পরিচিত হয়ে ভালো লাগল। 🤝", input),
		"এখন আমাদের আপনার মোবাইল নম্বর প্রয়োজন।",
		"এটি আপনার ইউজার আইডি হিসেবে ব্যবহৃত হবে এবং আমরা লগইন করার জন্য এটি ব্যবহার করব। আপনার ১১ ডিজিটের মোবাইল নম্বরটি লিখুন।",
	)
	session.State = StatePhone
}

func (e *Engine) handlePhone(session *Session, reply *Reply, input string) {
	if session.Blocked {
		reply.Messages = text("দুঃখিত, আপনি এই নম্বর দিয়ে নতুন অ্যাকাউন্ট খুলতে পারবেন না। অনুগ্রহ করে লগইন করুন।")
		return
	}
	if !utils.ValidPhone(input) {
		reply.Messages = text("ওহ! নম্বরটি সঠিক মনে হচ্ছে না। 😕 দয়া করে সঠিক ১১ ডিজিটের বাংলাদেশী মোবাইল নম্বর দিন (যেমন: 01712345678)।")
		return
	}

	exists, err := e.phones.Exists(input)
	if err != nil {
		reply.Messages = text("নম্বরটি যাচাই করতে সমস্যা হচ্ছে। দয়া করে একটু পরে আবার চেষ্টা করুন।")
		return
	}
	if exists {
		session.Blocked = true
		reply.Messages = text(
			"এই নম্বরটি দিয়ে ইতিমধ্যেই একটি অ্যাকাউন্ট খোলা আছে। ⚠️",
			"দুঃখিত, আপনি এই নম্বর দিয়ে নতুন অ্যাকাউন্ট খুলতে পারবেন না। অনুগ্রহ করে লগইন করুন।",
		)
		return
	}

	session.Phone = input
	reply.Messages = text(
		"দারুণ! নম্বরটি সেভ করা হয়েছে। ✅",
		"আপনার অ্যাকাউন্টের নিরাপত্তার জন্য একটি ৬ সংখ্যার গোপন পিন সেট করুন।",
		"এই পিনটি মনে রাখবেন, কারণ লগইন করার সময় এটি প্রয়োজন হবে।",
	)
	session.State = StatePIN
}

func (e *Engine) handlePIN(session *Session, reply *Reply, input string) {
	if !utils.ValidPIN(input) {
		reply.Messages = text("পিনটি অবশ্যই ৬ সংখ্যার হতে হবে। দয়া করে আবার চেষ্টা করুন।")
		return
	}
	session.PIN = input
	reply.Messages = text(
		"পিন সেট করা হয়েছে! 🔒",
		"আমরা কি আপনার হোয়াটসঅ্যাপ নম্বরটি পেতে পারি? জরুরি প্রয়োজনে আমরা যোগাযোগ করতে পারব।",
	)
	session.State = StateWhatsapp
}

func (e *Engine) handleWhatsapp(session *Session, reply *Reply, input string) {
	if !utils.ValidPhone(input) {
		reply.Messages = text("হোয়াটসঅ্যাপ নম্বরটিও ১১ ডিজিটের হওয়া উচিত। দয়া করে চেক করে আবার দিন।")
		return
	}
	session.Whatsapp = input
	reply.Messages = append(text(
		"ধন্যবাদ! 😊",
		"আপনার লিঙ্গ নির্বাচন করুন 👇",
	), Message{
		Options: []Option{
			{Label: "পুরুষ", Value: "Male"},
			{Label: "মহিলা", Value: "Female"},
			{Label: "অন্যান্য", Value: "Other"},
		},
	})
	session.State = StateGender
}

func (e *Engine) handleGender(session *Session, reply *Reply, input string) {
	session.Gender = input
	reply.Messages = append(text(
		"ঠিক আছে।",
		"আপনাকে কি কেউ রেফার করেছে? যদি রেফারেন্স থাকে তবে তার আইডি বা মোবাইল নম্বর দিন। না থাকলে \"skip\" লিখুন বা স্কিপ বাটনে ক্লিক করুন।",
	), Message{
		Options: []Option{{Label: "স্কিপ করুন", Value: inputSkip}},
	})
	session.State = StateReference
}

func (e *Engine) handleReference(session *Session, reply *Reply, input string) {
	if strings.EqualFold(input, inputSkip) {
		reply.Messages = text("আচ্ছা, কোনো সমস্যা নেই।")
	} else {
		session.Reference = input
		reply.Messages = text("রেফারেন্স নোট করা হয়েছে।")
	}
	e.submit(session, reply)
}

func (e *Engine) submit(session *Session, reply *Reply) {
	reply.Messages = append(reply.Messages,
		Message{Text: "আপনার তথ্য যাচাই করা হচ্ছে... ⏳"})

	reg := Registration{
		Name:      session.Name,
		Phone:     session.Phone,
		Password:  session.PIN,
		Whatsapp:  session.Whatsapp,
		Gender:    session.Gender,
		Reference: session.Reference,
	}
	if session.Project != nil {
		reg.ProjectCode = session.Project.Code
	}

	result, err := e.registrar.Register(reg)
	if err != nil {
		reply.Messages = append(reply.Messages, text(
			fmt.Sprintf("দুঃখিত, নিবন্ধন সম্পন্ন করা যায়নি। ❌ কারন: %s", err.Error()),
			"দয়া করে আবার চেষ্টা করুন বা অন্য মোবাইল নম্বর ব্যবহার করুন।",
		)...)
		reply.Messages = append(reply.Messages, Message{
			Options: []Option{{Label: "আবার চেষ্টা করুন", Value: inputRetry}},
		})
		session.State = StateRetry
		return
	}

	reply.Messages = append(reply.Messages, text(
		"অভিনন্দন! 🎉 আপনার নিবন্ধন সফল হয়েছে।",
		"আপনাকে ড্যাশবোর্ডে নিয়ে যাওয়া হচ্ছে...",
	)...)
	reply.Done = true
	reply.Token = result.Token
	reply.User = result.User
	session.State = StateDone
}

func (e *Engine) handleRegisterRetry(session *Session, reply *Reply, input string) {
	if input != inputRetry {
		reply.Messages = append(reply.Messages, Message{
			Options: []Option{{Label: "আবার চেষ্টা করুন", Value: inputRetry}},
		})
		return
	}
	session.reset()
	e.promptProject(session, reply)
}
