package dto

import "github.com/noah-isme/sales-ops-api/internal/models"

// RecordInteractionRequest is the payload for logging a sales contact.
// Optional fields distinguish "absent" from explicit zero values so an update
// only touches what the caller supplied.
type RecordInteractionRequest struct {
	IsNewClient bool   `json:"isNewClient"`
	ClientName  string `json:"clientName" validate:"required_if=IsNewClient true"`
	Phone1      string `json:"phone1"`
	Phone2      string `json:"phone2"`
	Address     string `json:"address"`
	ClientID    string `json:"clientId" validate:"required_if=IsNewClient false"`

	EmployeeID        models.Optional[string]       `json:"employeeId"`
	SourceID          models.Optional[int64]        `json:"sourceId"`
	AdTypeID          models.Optional[int64]        `json:"adTypeId"`
	StageID           models.Optional[models.Stage] `json:"stageId"`
	StatusID          models.Optional[int64]        `json:"statusId"`
	CategoryID        models.Optional[int64]        `json:"categoryId"`
	InterestedProduct models.Optional[string]       `json:"interestedProduct"`
	ExpectedValue     models.Optional[float64]      `json:"expectedValue"`
	Summary           string                        `json:"summary"`
	Guidance          models.Optional[string]       `json:"guidance"`
	LostReasonID      models.Optional[int64]        `json:"lostReasonId"`
	NextFollowUpDate  models.Optional[models.Date]  `json:"nextFollowUpDate"`
	TaskTypeID        models.Optional[int64]        `json:"taskTypeId"`

	CreatedBy string `json:"createdBy" validate:"required"`
}

// RecordInteractionResult summarises the entities touched by one interaction.
type RecordInteractionResult struct {
	ClientID         string  `json:"clientId"`
	OpportunityID    string  `json:"opportunityId"`
	InteractionID    string  `json:"interactionId"`
	TaskID           *string `json:"taskId"`
	IsNewClient      bool    `json:"isNewClient"`
	IsNewOpportunity bool    `json:"isNewOpportunity"`
}
