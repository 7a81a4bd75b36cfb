package models

import "time"

// Modality is the competition format of a category.
type Modality string

const (
	ModalityIndividual Modality = "Individual"
	ModalityTeam       Modality = "Equipos"
)

// CompetitorType tags which store a competitor id resolves against.
type CompetitorType string

const (
	CompetitorParticipant CompetitorType = "Participante"
	CompetitorTeam        CompetitorType = "Equipo"
)

// CompetitorType returns the reference type competitors of this modality resolve against.
func (m Modality) CompetitorType() CompetitorType {
	if m == ModalityTeam {
		return CompetitorTeam
	}
	return CompetitorParticipant
}

func (m Modality) Valid() bool {
	return m == ModalityIndividual || m == ModalityTeam
}

type BracketStatus string

const (
	BracketStatusGenerated  BracketStatus = "generated"
	BracketStatusInProgress BracketStatus = "in_progress"
	BracketStatusFinished   BracketStatus = "finished"
)

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusFinished   MatchStatus = "finished"
)

// CompetitorRef is a tagged reference to either a participant or a team.
type CompetitorRef struct {
	Type CompetitorType `json:"type"`
	ID   int            `json:"id"`
}

// CompetitorSlot is one side of a match. A slot is either empty (awaiting
// seeding or advancement), a bye (structural pass-through), or filled.
type CompetitorSlot struct {
	Competitor *CompetitorRef `json:"competitor,omitempty"`
	Bye        bool           `json:"bye"`
}

func (s CompetitorSlot) Empty() bool {
	return s.Competitor == nil && !s.Bye
}

func (s CompetitorSlot) Filled() bool {
	return s.Competitor != nil
}

// Match is a single combate within a round.
//
// Number is unique within the bracket and strictly increasing across rounds.
// TopologyIndex is the structural position of the match within its round,
// assigned at generation and never edited; winner advancement keys off it.
// Order is the admin-editable execution order and defaults to TopologyIndex.
type Match struct {
	Number        int            `json:"number"`
	Order         int            `json:"order"`
	TopologyIndex int            `json:"topology_index"`
	Competitor1   CompetitorSlot `json:"competitor1"`
	Competitor2   CompetitorSlot `json:"competitor2"`
	Winner        *CompetitorRef `json:"winner,omitempty"`
	Tatami        *int           `json:"tatami,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	Status        MatchStatus    `json:"status"`
}

// HasBye reports whether either slot of the match is a structural bye.
func (m Match) HasBye() bool {
	return m.Competitor1.Bye || m.Competitor2.Bye
}

type Round struct {
	Number  int     `json:"number"`
	Name    string  `json:"name"`
	Matches []Match `json:"matches"`
}

// Bracket is the persisted single-elimination tree for one category.
// The whole rounds structure is the aggregate: every mutation is a
// read-modify-write of the document guarded by Version.
type Bracket struct {
	ID               int           `json:"id"`
	CategoryID       int           `json:"category_id"`
	Modality         Modality      `json:"modality"`
	PublicToken      string        `json:"public_token"`
	Rounds           []Round       `json:"rounds"`
	TotalCompetitors int           `json:"total_competitors"`
	Status           BracketStatus `json:"status"`
	CreatedByID      int           `json:"created_by_id"`
	Version          int           `json:"-"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	Category *Category `json:"category,omitempty"`
}
