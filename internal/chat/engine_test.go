package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	projects []Project
	err      error
}

func (f *fakeDirectory) ListActive() ([]Project, error) {
	return f.projects, f.err
}

type fakeChecker struct {
	taken map[string]bool
	err   error
}

func (f *fakeChecker) Exists(phone string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.taken[phone], nil
}

type fakeRegistrar struct {
	err      error
	received []Registration
}

func (f *fakeRegistrar) Register(reg Registration) (*RegistrationResult, error) {
	f.received = append(f.received, reg)
	if f.err != nil {
		return nil, f.err
	}
	return &RegistrationResult{Token: "token-123", User: map[string]string{"name": reg.Name}}, nil
}

type engineEnv struct {
	engine    *Engine
	store     *Store
	registrar *fakeRegistrar
	checker   *fakeChecker
	directory *fakeDirectory
}

func newEngineEnv(t *testing.T, projects []Project) engineEnv {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	directory := &fakeDirectory{projects: projects}
	checker := &fakeChecker{taken: map[string]bool{}}
	registrar := &fakeRegistrar{}
	store := NewStore(client, 0)

	return engineEnv{
		engine:    NewEngine(directory, checker, registrar, store),
		store:     store,
		registrar: registrar,
		checker:   checker,
		directory: directory,
	}
}

func gatedProject() Project {
	return Project{
		Code:       "TIKTOK",
		Name:       "TikTok Creators",
		YoutubeURL: "https://youtu.be/abc123",
		Questions: []Question{
			{Question: "First?", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", Answer: "b"},
			{Question: "Second?", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", Answer: "d"},
		},
	}
}

func advance(t *testing.T, env engineEnv, id, input string) *Reply {
	t.Helper()
	reply, err := env.engine.Advance(context.Background(), id, input)
	require.NoError(t, err)
	return reply
}

func TestEngine_FullFlowWithVideoGate(t *testing.T) {
	env := newEngineEnv(t, []Project{gatedProject()})
	ctx := context.Background()

	start, err := env.engine.Start(ctx)
	require.NoError(t, err)
	require.Equal(t, StateProjectSelect, start.State)
	require.NotEmpty(t, start.SessionID)

	reply := advance(t, env, start.SessionID, "TIKTOK")
	require.Equal(t, StateVideo, reply.State)

	// The video message carries the extracted id, the answers never appear.
	var sawVideo bool
	for _, m := range reply.Messages {
		if m.VideoID != "" {
			require.Equal(t, "abc123", m.VideoID)
			sawVideo = true
		}
	}
	require.True(t, sawVideo)

	reply = advance(t, env, start.SessionID, "video_watched")
	require.Equal(t, StateMCQ, reply.State)

	reply = advance(t, env, start.SessionID, "b")
	require.Equal(t, StateMCQ, reply.State)

	reply = advance(t, env, start.SessionID, "d")
	require.Equal(t, StateName, reply.State)

	reply = advance(t, env, start.SessionID, "Rahima Khatun")
	require.Equal(t, StatePhone, reply.State)

	reply = advance(t, env, start.SessionID, "01712345678")
	require.Equal(t, StatePIN, reply.State)

	reply = advance(t, env, start.SessionID, "123456")
	require.Equal(t, StateWhatsapp, reply.State)

	reply = advance(t, env, start.SessionID, "01812345678")
	require.Equal(t, StateGender, reply.State)

	reply = advance(t, env, start.SessionID, "Female")
	require.Equal(t, StateReference, reply.State)

	reply = advance(t, env, start.SessionID, "skip")
	require.True(t, reply.Done)
	require.Equal(t, "token-123", reply.Token)
	require.NotNil(t, reply.User)

	require.Len(t, env.registrar.received, 1)
	got := env.registrar.received[0]
	require.Equal(t, "Rahima Khatun", got.Name)
	require.Equal(t, "01712345678", got.Phone)
	require.Equal(t, "123456", got.Password)
	require.Equal(t, "01812345678", got.Whatsapp)
	require.Equal(t, "Female", got.Gender)
	require.Empty(t, got.Reference)
	require.Equal(t, "TIKTOK", got.ProjectCode)

	// A finished session is gone.
	_, err = env.store.Get(ctx, start.SessionID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEngine_WrongAnswerRestartsQuiz(t *testing.T) {
	env := newEngineEnv(t, []Project{gatedProject()})

	start, err := env.engine.Start(context.Background())
	require.NoError(t, err)

	advance(t, env, start.SessionID, "TIKTOK")
	advance(t, env, start.SessionID, "video_watched")

	// First answer correct, second wrong: the whole quiz is voided.
	advance(t, env, start.SessionID, "b")
	reply := advance(t, env, start.SessionID, "a")
	require.Equal(t, StateMCQRetry, reply.State)

	reply = advance(t, env, start.SessionID, "anything")
	require.Equal(t, StateVideo, reply.State)

	// After rewatching the quiz starts over at question one.
	reply = advance(t, env, start.SessionID, "video_watched")
	require.Equal(t, StateMCQ, reply.State)
	require.Contains(t, reply.Messages[0].Text, "প্রশ্ন 1")

	session, err := env.store.Get(context.Background(), start.SessionID)
	require.NoError(t, err)
	require.Equal(t, 0, session.MCQIndex)
	require.Empty(t, session.MCQAnswers)
}

func TestEngine_AnswersNeverLeaveServer(t *testing.T) {
	env := newEngineEnv(t, []Project{gatedProject()})

	start, err := env.engine.Start(context.Background())
	require.NoError(t, err)

	advance(t, env, start.SessionID, "TIKTOK")
	reply := advance(t, env, start.SessionID, "video_watched")

	for _, m := range reply.Messages {
		for _, o := range m.Options {
			require.NotEqual(t, "b", o.Label)
		}
	}
}

func TestEngine_ExistingPhoneDeadEnd(t *testing.T) {
	env := newEngineEnv(t, []Project{{Code: "OPEN", Name: "Open Project"}})
	env.checker.taken["01712345678"] = true

	start, err := env.engine.Start(context.Background())
	require.NoError(t, err)

	advance(t, env, start.SessionID, "OPEN")
	advance(t, env, start.SessionID, "Rahima Khatun")

	reply := advance(t, env, start.SessionID, "01712345678")
	require.Equal(t, StatePhone, reply.State)

	// The session is blocked for good, a fresh unused number changes nothing.
	reply = advance(t, env, start.SessionID, "01999999999")
	require.Equal(t, StatePhone, reply.State)
	require.Contains(t, reply.Messages[0].Text, "লগইন")
}

func TestEngine_ManualCodeSkipsVideoGate(t *testing.T) {
	env := newEngineEnv(t, nil)
	env.directory.err = errors.New("db down")

	start, err := env.engine.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateProjectManual, start.State)

	reply := advance(t, env, start.SessionID, "SECRET42")
	require.Equal(t, StateName, reply.State)
}

func TestEngine_EmptyDirectoryFallsBackToManual(t *testing.T) {
	env := newEngineEnv(t, nil)

	start, err := env.engine.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateProjectManual, start.State)
}

func TestEngine_ProjectWithoutVideoGoesStraightToName(t *testing.T) {
	env := newEngineEnv(t, []Project{{Code: "OPEN", Name: "Open Project"}})

	start, err := env.engine.Start(context.Background())
	require.NoError(t, err)

	reply := advance(t, env, start.SessionID, "OPEN")
	require.Equal(t, StateName, reply.State)
}

func TestEngine_ShortNameReprompts(t *testing.T) {
	env := newEngineEnv(t, []Project{{Code: "OPEN", Name: "Open Project"}})

	start, err := env.engine.Start(context.Background())
	require.NoError(t, err)

	advance(t, env, start.SessionID, "OPEN")
	reply := advance(t, env, start.SessionID, "ab")
	require.Equal(t, StateName, reply.State)
}

func TestEngine_RegistrationFailureRetryResetsEverything(t *testing.T) {
	env := newEngineEnv(t, []Project{{Code: "OPEN", Name: "Open Project"}})
	env.registrar.err = errors.New("phone number already registered")

	start, err := env.engine.Start(context.Background())
	require.NoError(t, err)

	advance(t, env, start.SessionID, "OPEN")
	advance(t, env, start.SessionID, "Rahima Khatun")
	advance(t, env, start.SessionID, "01712345678")
	advance(t, env, start.SessionID, "123456")
	advance(t, env, start.SessionID, "01812345678")
	advance(t, env, start.SessionID, "Female")

	reply := advance(t, env, start.SessionID, "skip")
	require.Equal(t, StateRetry, reply.State)
	require.False(t, reply.Done)

	// The verbatim failure reason is shown to the user.
	var sawReason bool
	for _, m := range reply.Messages {
		if strings.Contains(m.Text, "phone number already registered") {
			sawReason = true
		}
	}
	require.True(t, sawReason)

	reply = advance(t, env, start.SessionID, "retry")
	require.Equal(t, StateProjectSelect, reply.State)

	session, err := env.store.Get(context.Background(), start.SessionID)
	require.NoError(t, err)
	require.Empty(t, session.Name)
	require.Empty(t, session.Phone)
	require.Empty(t, session.PIN)
}

func TestEngine_UnknownSession(t *testing.T) {
	env := newEngineEnv(t, nil)

	_, err := env.engine.Advance(context.Background(), "no-such-session", "hello")
	require.ErrorIs(t, err, ErrSessionNotFound)
}
