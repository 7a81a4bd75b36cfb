package models

import "time"

// Discipline codes recognized by the eligibility query.
const (
	DisciplineKataIndividual   = "kata-individual"
	DisciplineKataTeam         = "kata-equipos"
	DisciplineKumiteIndividual = "kumite-individual"
	DisciplineKumiteTeam       = "kumite-equipos"
	DisciplineKihonIppon       = "kihon-ippon"
)

type CategoryGender string

const (
	CategoryGenderMale   CategoryGender = "Masculino"
	CategoryGenderFemale CategoryGender = "Femenino"
	CategoryGenderMixed  CategoryGender = "Mixto"
)

type CategoryLevel string

const (
	LevelNovice   CategoryLevel = "Novicio"
	LevelAdvanced CategoryLevel = "Avanzado"
	LevelOpen     CategoryLevel = "Libre"
)

// Category is a competition bracket slot definition: discipline plus age
// range, gender and grade level. At most one bracket exists per category.
type Category struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	DisciplineCode string         `json:"discipline_code"`
	AgeMin         int            `json:"age_min"`
	AgeMax         int            `json:"age_max"`
	Gender         CategoryGender `json:"gender"`
	Level          CategoryLevel  `json:"level"`
	Modality       Modality       `json:"modality"`
	Active         bool           `json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
}
