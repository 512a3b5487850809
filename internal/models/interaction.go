package models

import "time"

// Interaction is the immutable audit record of one contact event.
type Interaction struct {
	ID               string     `db:"id" json:"id"`
	OpportunityID    string     `db:"opportunity_id" json:"opportunityId"`
	EmployeeID       *string    `db:"employee_id" json:"employeeId,omitempty"`
	SourceID         *int64     `db:"source_id" json:"sourceId,omitempty"`
	Summary          *string    `db:"summary" json:"summary,omitempty"`
	StageBefore      *Stage     `db:"stage_before" json:"stageBefore"`
	StageAfter       Stage      `db:"stage_after" json:"stageAfter"`
	NextFollowUpDate *time.Time `db:"next_follow_up_date" json:"nextFollowUpDate,omitempty"`
	CreatedBy        string     `db:"created_by" json:"createdBy"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
}
