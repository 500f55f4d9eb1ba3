package dto

import (
	"time"

	"github.com/bikrans/platform-api/internal/models"
)

// MCQDTO is a question as shown to admins, correct answer included.
type MCQDTO struct {
	Question string `json:"question"`
	OptionA  string `json:"option_a"`
	OptionB  string `json:"option_b"`
	OptionC  string `json:"option_c"`
	OptionD  string `json:"option_d"`
	Answer   string `json:"answer"`
}

// ProjectDTO is the admin view of a project.
type ProjectDTO struct {
	ID         uint64    `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	YoutubeURL *string   `json:"youtube_url,omitempty"`
	MCQs       []MCQDTO  `json:"mcqs,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PublicProjectDTO is the public view. It never carries the MCQ answers.
type PublicProjectDTO struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ToProjectDTO converts a project with its full MCQ set.
func ToProjectDTO(p models.Project) ProjectDTO {
	d := ProjectDTO{
		ID:         p.ID,
		Code:       p.Code,
		Name:       p.Name,
		YoutubeURL: p.YoutubeURL,
		CreatedAt:  p.CreatedAt,
	}
	for _, q := range p.Questions() {
		d.MCQs = append(d.MCQs, MCQDTO{
			Question: q.Question,
			OptionA:  q.OptionA,
			OptionB:  q.OptionB,
			OptionC:  q.OptionC,
			OptionD:  q.OptionD,
			Answer:   q.Answer,
		})
	}
	return d
}

// ToPublicProjectDTOs converts projects to their public shape.
func ToPublicProjectDTOs(projects []models.Project) []PublicProjectDTO {
	out := make([]PublicProjectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, PublicProjectDTO{ID: p.ID, Code: p.Code, Name: p.Name})
	}
	return out
}
