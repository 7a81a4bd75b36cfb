package models

import "time"

type Gender string

const (
	GenderMale   Gender = "Masculino"
	GenderFemale Gender = "Femenino"
)

// Grades ordered from beginner to advanced. "Dan" covers all black belt ranks.
var Grades = []string{
	"10 Kyu", "9 Kyu", "8 Kyu", "7 Kyu", "6 Kyu",
	"5 Kyu", "4 Kyu", "3 Kyu", "2 Kyu", "1 Kyu", "Dan",
}

// NoviceGrades and AdvancedGrades are the grade bands used by category levels.
var (
	NoviceGrades   = []string{"10 Kyu", "9 Kyu", "8 Kyu", "7 Kyu"}
	AdvancedGrades = []string{"6 Kyu", "5 Kyu", "4 Kyu", "3 Kyu", "2 Kyu", "1 Kyu", "Dan"}
)

func ValidGrade(g string) bool {
	for _, grade := range Grades {
		if grade == g {
			return true
		}
	}
	return false
}

// ModalityFlags marks which disciplines a participant is registered for.
type ModalityFlags struct {
	KataIndividual   bool `json:"kata_individual"`
	KataTeam         bool `json:"kata_team"`
	KumiteIndividual bool `json:"kumite_individual"`
	KumiteTeam       bool `json:"kumite_team"`
	KihonIppon       bool `json:"kihon_ippon"`
}

type Participant struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Age         int           `json:"age"`
	Gender      Gender        `json:"gender"`
	Grade       string        `json:"grade"`
	DojoID      int           `json:"dojo_id"`
	CreatedByID *int          `json:"created_by_id,omitempty"`
	Modalities  ModalityFlags `json:"modalities"`
	CreatedAt   time.Time     `json:"created_at"`

	Dojo *Dojo `json:"dojo,omitempty"`
}
