package models

import "time"

// CampaignProjectCode is the project campaign signups are enrolled in.
const CampaignProjectCode = "FTMP"

// MCQ is one multiple-choice question attached to a project. Answer holds the
// correct option letter (a-d) and must never reach public payloads.
type MCQ struct {
	Question string `gorm:"type:varchar(500)" json:"question"`
	OptionA  string `gorm:"type:varchar(255)" json:"option_a"`
	OptionB  string `gorm:"type:varchar(255)" json:"option_b"`
	OptionC  string `gorm:"type:varchar(255)" json:"option_c"`
	OptionD  string `gorm:"type:varchar(255)" json:"option_d"`
	Answer   string `gorm:"type:char(1)" json:"answer,omitempty"`
}

// Empty reports whether the question slot is unused.
func (m MCQ) Empty() bool {
	return m.Question == ""
}

type Project struct {
	ID         uint64  `gorm:"primarykey" json:"id"`
	Code       string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name       string  `gorm:"type:varchar(255);not null" json:"name"`
	YoutubeURL *string `gorm:"type:varchar(500)" json:"youtube_url,omitempty"`

	MCQ1 MCQ `gorm:"embedded;embeddedPrefix:mcq1_" json:"-"`
	MCQ2 MCQ `gorm:"embedded;embeddedPrefix:mcq2_" json:"-"`
	MCQ3 MCQ `gorm:"embedded;embeddedPrefix:mcq3_" json:"-"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Members []UserProject `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// Questions returns the populated MCQ slots in order.
func (p *Project) Questions() []MCQ {
	questions := make([]MCQ, 0, 3)
	for _, q := range []MCQ{p.MCQ1, p.MCQ2, p.MCQ3} {
		if !q.Empty() {
			questions = append(questions, q)
		}
	}
	return questions
}

type UserProject struct {
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	ProjectID uint64    `gorm:"primarykey" json:"project_id"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
