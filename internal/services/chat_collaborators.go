package services

import (
	"github.com/bikrans/platform-api/internal/chat"
	"github.com/bikrans/platform-api/internal/dto"
	"github.com/bikrans/platform-api/internal/token"
)

// ChatCollaborators wires the conversation engine's collaborator interfaces
// to the auth and project services.
type ChatCollaborators struct {
	auth     *AuthService
	projects *ProjectService
	tokens   *token.Service
}

// NewChatCollaborators creates the service-backed chat collaborators.
func NewChatCollaborators(auth *AuthService, projects *ProjectService, tokens *token.Service) *ChatCollaborators {
	return &ChatCollaborators{auth: auth, projects: projects, tokens: tokens}
}

// ListActive returns the project directory the conversation selects from,
// MCQ sets included. The answers stay server-side in the session snapshot.
func (c *ChatCollaborators) ListActive() ([]chat.Project, error) {
	projects, err := c.projects.ListProjects()
	if err != nil {
		return nil, err
	}
	out := make([]chat.Project, 0, len(projects))
	for _, p := range projects {
		cp := chat.Project{Code: p.Code, Name: p.Name}
		if p.YoutubeURL != nil {
			cp.YoutubeURL = *p.YoutubeURL
		}
		for _, q := range p.Questions() {
			cp.Questions = append(cp.Questions, chat.Question{
				Question: q.Question,
				OptionA:  q.OptionA,
				OptionB:  q.OptionB,
				OptionC:  q.OptionC,
				OptionD:  q.OptionD,
				Answer:   q.Answer,
			})
		}
		out = append(out, cp)
	}
	return out, nil
}

// Exists reports whether the phone already has an account.
func (c *ChatCollaborators) Exists(phone string) (bool, error) {
	return c.auth.CheckPhone(phone)
}

// Register creates the account collected by the conversation and issues the
// auto-login token.
func (c *ChatCollaborators) Register(reg chat.Registration) (*chat.RegistrationResult, error) {
	input := RegisterInput{
		Name:        reg.Name,
		Phone:       reg.Phone,
		Password:    reg.Password,
		ProjectCode: reg.ProjectCode,
	}
	if reg.Whatsapp != "" {
		whatsapp := reg.Whatsapp
		input.WhatsappNumber = &whatsapp
	}
	if reg.Gender != "" {
		gender := reg.Gender
		input.Gender = &gender
	}

	user, projects, err := c.auth.Register(input)
	if err != nil {
		return nil, err
	}

	tokenString, err := c.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	return &chat.RegistrationResult{
		Token: tokenString,
		User:  dto.ToUserDTOWithProjects(*user, projects),
	}, nil
}
