package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sales-ops-api/internal/dto"
	"github.com/noah-isme/sales-ops-api/internal/models"
	"github.com/noah-isme/sales-ops-api/internal/repository"
	"github.com/noah-isme/sales-ops-api/pkg/database"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
)

const workflowRecordInteraction = "record_interaction"

type unitOfWorkRunner interface {
	Run(ctx context.Context, name string, fn func(ctx context.Context, uow *database.UnitOfWork) error) error
}

type clientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id string) (*models.Client, error)
}

type opportunityRepository interface {
	LockClient(ctx context.Context, clientID string) error
	FindOpenByClient(ctx context.Context, clientID string) (*models.Opportunity, error)
	GetByID(ctx context.Context, id string) (*models.Opportunity, error)
	Create(ctx context.Context, opp *models.Opportunity) error
	ApplyChanges(ctx context.Context, params repository.ApplyChangesParams) (models.Stage, error)
}

type interactionRepository interface {
	Create(ctx context.Context, interaction *models.Interaction) error
	ListByOpportunity(ctx context.Context, opportunityID string) ([]models.Interaction, error)
}

type taskRepository interface {
	CompleteOpen(ctx context.Context, completion models.TaskCompletion) (int64, error)
	Create(ctx context.Context, task *models.Task) error
}

type roleNotifier interface {
	NotifyRoles(ctx context.Context, params dto.NotifyRolesParams) error
}

// InteractionService records sales contacts and keeps the opportunity and its
// follow-up task in step with them.
type InteractionService struct {
	tx            unitOfWorkRunner
	clients       clientRepository
	opportunities opportunityRepository
	interactions  interactionRepository
	tasks         taskRepository
	notifier      roleNotifier
	managerRoles  []models.UserRole
	validator     *validator.Validate
	metrics       *MetricsService
	logger        *zap.Logger
	now           func() time.Time
}

// InteractionServiceDeps bundles the collaborators of InteractionService.
type InteractionServiceDeps struct {
	Transactor    unitOfWorkRunner
	Clients       clientRepository
	Opportunities opportunityRepository
	Interactions  interactionRepository
	Tasks         taskRepository
	Notifier      roleNotifier
	ManagerRoles  []models.UserRole
	Validator     *validator.Validate
	Metrics       *MetricsService
	Logger        *zap.Logger
}

// NewInteractionService constructs the service.
func NewInteractionService(deps InteractionServiceDeps) *InteractionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InteractionService{
		tx:            deps.Transactor,
		clients:       deps.Clients,
		opportunities: deps.Opportunities,
		interactions:  deps.Interactions,
		tasks:         deps.Tasks,
		notifier:      deps.Notifier,
		managerRoles:  deps.ManagerRoles,
		validator:     newRequestValidator(deps.Validator),
		metrics:       deps.Metrics,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// RecordInteraction logs one contact event. Client creation, the opportunity
// upsert, the interaction row and the task rotation commit together or not at
// all. Managers are notified after the commit.
func (s *InteractionService) RecordInteraction(ctx context.Context, req dto.RecordInteractionRequest) (*dto.RecordInteractionResult, error) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientID = strings.TrimSpace(req.ClientID)
	req.CreatedBy = strings.TrimSpace(req.CreatedBy)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	now := s.now()
	changes := opportunityChanges(req)
	result := &dto.RecordInteractionResult{IsNewClient: req.IsNewClient}
	var closed int64

	err := s.tx.Run(ctx, workflowRecordInteraction, func(ctx context.Context, uow *database.UnitOfWork) error {
		client, err := s.resolveClient(ctx, req, now)
		if err != nil {
			return err
		}
		result.ClientID = client.ID

		if err := s.opportunities.LockClient(ctx, client.ID); err != nil {
			return err
		}
		existing, err := s.opportunities.FindOpenByClient(ctx, client.ID)
		if err != nil {
			return err
		}

		var (
			stageBefore *models.Stage
			stageAfter  models.Stage
			assignee    = changes.EmployeeID.Ptr()
		)
		if existing != nil {
			before := existing.StageID
			stageBefore = &before
			if assignee == nil {
				assignee = existing.EmployeeID
			}
			stageAfter, err = s.opportunities.ApplyChanges(ctx, repository.ApplyChangesParams{
				ID:        existing.ID,
				Changes:   changes,
				UpdatedBy: req.CreatedBy,
				At:        now,
			})
			if err != nil {
				return err
			}
			result.OpportunityID = existing.ID
		} else {
			opp := newOpportunity(client.ID, changes, req.CreatedBy, now)
			if err := s.opportunities.Create(ctx, opp); err != nil {
				return err
			}
			stageAfter = opp.StageID
			result.OpportunityID = opp.ID
			result.IsNewOpportunity = true
		}

		followUp, hasFollowUp := followUpDate(req)
		interaction := &models.Interaction{
			OpportunityID: result.OpportunityID,
			EmployeeID:    changes.EmployeeID.Ptr(),
			SourceID:      changes.SourceID.Ptr(),
			Summary:       optionalString(strings.TrimSpace(req.Summary)),
			StageBefore:   stageBefore,
			StageAfter:    stageAfter,
			CreatedBy:     req.CreatedBy,
			CreatedAt:     now,
		}
		if hasFollowUp {
			interaction.NextFollowUpDate = &followUp
		}
		if err := s.interactions.Create(ctx, interaction); err != nil {
			return err
		}
		result.InteractionID = interaction.ID

		closed, err = s.tasks.CompleteOpen(ctx, models.TaskCompletion{
			OpportunityID: result.OpportunityID,
			CompletedBy:   req.CreatedBy,
			CompletedAt:   now,
			Note:          models.AutoCloseNote,
		})
		if err != nil {
			return err
		}

		if hasFollowUp && !stageAfter.IsTerminal() {
			task := &models.Task{
				OpportunityID: result.OpportunityID,
				AssignedTo:    assignee,
				TaskTypeID:    req.TaskTypeID.Ptr(),
				Description:   followUpDescription(req),
				DueDate:       followUp,
				Priority:      models.TaskPriorityMedium,
				Status:        models.TaskStatusPending,
				CreatedBy:     req.CreatedBy,
				CreatedAt:     now,
			}
			if err := s.tasks.Create(ctx, task); err != nil {
				return err
			}
			result.TaskID = &task.ID
		}

		title, message := interactionSummary(client.Name, stageBefore, stageAfter, req.Summary)
		uow.AfterCommit("notify_managers", func(ctx context.Context) error {
			return s.notifier.NotifyRoles(ctx, dto.NotifyRolesParams{
				Title:     title,
				Message:   message,
				RelatedID: result.OpportunityID,
				Roles:     s.managerRoles,
				FormName:  models.FormInteractions,
				CreatedBy: req.CreatedBy,
			})
		})
		return nil
	})
	s.metrics.RecordWorkflow(workflowRecordInteraction, err)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		s.logger.Error("record interaction failed", zap.String("client_id", req.ClientID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to record interaction")
	}

	s.metrics.RecordTasks(closed, result.TaskID != nil)
	s.logger.Info("interaction recorded",
		zap.String("client_id", result.ClientID),
		zap.String("opportunity_id", result.OpportunityID),
		zap.Bool("new_opportunity", result.IsNewOpportunity),
		zap.Int64("tasks_closed", closed))
	return result, nil
}

// History returns the interactions logged against an opportunity.
func (s *InteractionService) History(ctx context.Context, opportunityID string) ([]models.Interaction, error) {
	if _, err := s.opportunities.GetByID(ctx, opportunityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "opportunity not found")
		}
		return nil, appErrors.Internal(err, "failed to load opportunity")
	}
	items, err := s.interactions.ListByOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load interactions")
	}
	return items, nil
}

func (s *InteractionService) resolveClient(ctx context.Context, req dto.RecordInteractionRequest, now time.Time) (*models.Client, error) {
	if req.IsNewClient {
		client := &models.Client{
			Name:      strings.TrimSpace(req.ClientName),
			Phone1:    optionalString(strings.TrimSpace(req.Phone1)),
			Phone2:    optionalString(strings.TrimSpace(req.Phone2)),
			Address:   optionalString(strings.TrimSpace(req.Address)),
			CreatedBy: req.CreatedBy,
			CreatedAt: now,
		}
		if err := s.clients.Create(ctx, client); err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := s.clients.FindByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "client not found")
		}
		return nil, fmt.Errorf("load client: %w", err)
	}
	return client, nil
}

func opportunityChanges(req dto.RecordInteractionRequest) models.OpportunityChanges {
	return models.OpportunityChanges{
		EmployeeID:        req.EmployeeID,
		SourceID:          req.SourceID,
		AdTypeID:          req.AdTypeID,
		StageID:           req.StageID,
		StatusID:          req.StatusID,
		CategoryID:        req.CategoryID,
		InterestedProduct: req.InterestedProduct,
		ExpectedValue:     req.ExpectedValue,
		LostReasonID:      req.LostReasonID,
		Notes:             req.Guidance,
	}
}

func newOpportunity(clientID string, c models.OpportunityChanges, actor string, now time.Time) *models.Opportunity {
	return &models.Opportunity{
		ClientID:          clientID,
		EmployeeID:        c.EmployeeID.Ptr(),
		SourceID:          c.SourceID.Ptr(),
		AdTypeID:          c.AdTypeID.Ptr(),
		StageID:           c.StageID.Or(models.StageNew),
		StatusID:          c.StatusID.Ptr(),
		CategoryID:        c.CategoryID.Ptr(),
		InterestedProduct: c.InterestedProduct.Ptr(),
		ExpectedValue:     c.ExpectedValue.Ptr(),
		LostReasonID:      c.LostReasonID.Ptr(),
		Notes:             c.Notes.Ptr(),
		FirstContactAt:    now,
		LastContactAt:     now,
		Active:            true,
		CreatedBy:         actor,
		CreatedAt:         now,
	}
}

func followUpDate(req dto.RecordInteractionRequest) (time.Time, bool) {
	date, ok := req.NextFollowUpDate.Get()
	if !ok || date.IsZero() {
		return time.Time{}, false
	}
	return date.Time, true
}

func followUpDescription(req dto.RecordInteractionRequest) string {
	if guidance, ok := req.Guidance.Get(); ok && strings.TrimSpace(guidance) != "" {
		return strings.TrimSpace(guidance)
	}
	return models.DefaultFollowUpDescription
}

func interactionSummary(clientName string, before *models.Stage, after models.Stage, summary string) (string, string) {
	var message string
	if before == nil {
		message = fmt.Sprintf("New opportunity for %s at stage %d.", clientName, after)
	} else if *before != after {
		message = fmt.Sprintf("Opportunity for %s moved from stage %d to %d.", clientName, *before, after)
	} else {
		message = fmt.Sprintf("Follow-up logged for %s at stage %d.", clientName, after)
	}
	if summary = strings.TrimSpace(summary); summary != "" {
		message += " " + summary
	}
	return "New sales interaction", message
}
