package models

import "time"

type TeamState string

const (
	TeamStateDraft  TeamState = "draft"
	TeamStateActive TeamState = "active"
)

// Team is a dojo's roster for a team category. Only active teams are
// eligible for bracket seeding.
type Team struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	CategoryID int       `json:"category_id"`
	DojoID     int       `json:"dojo_id"`
	MemberIDs  []int     `json:"member_ids"`
	TeamNumber int       `json:"team_number"`
	State      TeamState `json:"state"`
	CreatedAt  time.Time `json:"created_at"`

	Dojo    *Dojo         `json:"dojo,omitempty"`
	Members []Participant `json:"members,omitempty"`
}
