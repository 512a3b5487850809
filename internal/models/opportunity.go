package models

import "time"

// Stage is a pipeline position from the externally managed stage catalog.
type Stage int

const (
	StageNew            Stage = 1
	StageWon            Stage = 3
	StageLost           Stage = 4
	StageLostNoResponse Stage = 5
)

// TerminalStages lists the stages after which no follow-up is scheduled.
var TerminalStages = []Stage{StageWon, StageLost, StageLostNoResponse}

// IsTerminal reports whether the stage closes the opportunity.
func (s Stage) IsTerminal() bool {
	for _, terminal := range TerminalStages {
		if s == terminal {
			return true
		}
	}
	return false
}

// Opportunity is a sales pursuit tied to exactly one client.
type Opportunity struct {
	ID                string     `db:"id" json:"id"`
	ClientID          string     `db:"client_id" json:"clientId"`
	EmployeeID        *string    `db:"employee_id" json:"employeeId,omitempty"`
	SourceID          *int64     `db:"source_id" json:"sourceId,omitempty"`
	AdTypeID          *int64     `db:"ad_type_id" json:"adTypeId,omitempty"`
	StageID           Stage      `db:"stage_id" json:"stageId"`
	StatusID          *int64     `db:"status_id" json:"statusId,omitempty"`
	CategoryID        *int64     `db:"category_id" json:"categoryId,omitempty"`
	InterestedProduct *string    `db:"interested_product" json:"interestedProduct,omitempty"`
	ExpectedValue     *float64   `db:"expected_value" json:"expectedValue,omitempty"`
	LostReasonID      *int64     `db:"lost_reason_id" json:"lostReasonId,omitempty"`
	Notes             *string    `db:"notes" json:"notes,omitempty"`
	FirstContactAt    time.Time  `db:"first_contact_at" json:"firstContactAt"`
	LastContactAt     time.Time  `db:"last_contact_at" json:"lastContactAt"`
	Active            bool       `db:"active" json:"active"`
	CreatedBy         string     `db:"created_by" json:"createdBy"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedBy         *string    `db:"updated_by" json:"updatedBy,omitempty"`
	UpdatedAt         *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

// OpportunityChanges holds the merge-if-present fields of an interaction.
// Absent fields keep the stored value.
type OpportunityChanges struct {
	EmployeeID        Optional[string]
	SourceID          Optional[int64]
	AdTypeID          Optional[int64]
	StageID           Optional[Stage]
	StatusID          Optional[int64]
	CategoryID        Optional[int64]
	InterestedProduct Optional[string]
	ExpectedValue     Optional[float64]
	LostReasonID      Optional[int64]
	Notes             Optional[string]
}
