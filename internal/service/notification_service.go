package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sales-ops-api/internal/dto"
	"github.com/noah-isme/sales-ops-api/internal/models"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
	"github.com/noah-isme/sales-ops-api/pkg/jobs"
)

// Notification delivery channels used as metric labels.
const (
	ChannelStore = "store"
	ChannelPush  = "push"
)

// JobTypePush identifies queued push deliveries.
const JobTypePush = "notification.push"

type notificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForRecipient(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error)
}

type employeeResolver interface {
	ResolveByUserID(ctx context.Context, userID string) (*models.Employee, error)
}

type pushPublisher interface {
	Ready(ctx context.Context) bool
	Channel(kind, key string) string
	Publish(ctx context.Context, channel string, payload []byte) error
}

type pushEnqueuer interface {
	TryEnqueue(job jobs.Job) error
}

type pushDelivery struct {
	Channel string
	Payload []byte
}

// NotificationService stores notifications for roles or single employees and
// forwards them to the realtime push channel when it is available.
type NotificationService struct {
	repo      notificationRepository
	employees employeeResolver
	publisher pushPublisher
	queue     pushEnqueuer
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewNotificationService constructs the service. publisher may be nil, in
// which case notifications are only stored.
func NewNotificationService(repo notificationRepository, employees employeeResolver, publisher pushPublisher, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, employees: employees, publisher: publisher, metrics: metrics, logger: logger}
}

// SetPushQueue routes push deliveries through an async queue instead of
// publishing inline.
func (s *NotificationService) SetPushQueue(queue pushEnqueuer) {
	s.queue = queue
}

// NotifyRoles creates one notification per role. Every role is attempted; the
// returned error joins the individual failures.
func (s *NotificationService) NotifyRoles(ctx context.Context, params dto.NotifyRolesParams) error {
	var errs []error
	for _, role := range params.Roles {
		role := role
		n := &models.Notification{
			Title:      params.Title,
			Body:       params.Message,
			TargetRole: &role,
			FormName:   params.FormName,
			RelatedID:  optionalString(params.RelatedID),
			CreatedBy:  optionalString(params.CreatedBy),
		}
		err := s.repo.Create(ctx, n)
		s.metrics.RecordNotification(ChannelStore, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("notify role %s: %w", role, err))
			continue
		}
		s.push(ctx, n, "role", string(role))
	}
	return errors.Join(errs...)
}

// NotifyEmployee creates a notification for the employee linked to
// params.UserID. Users without an employee record are skipped.
func (s *NotificationService) NotifyEmployee(ctx context.Context, params dto.NotifyEmployeeParams) error {
	employee, err := s.employees.ResolveByUserID(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, appErrors.ErrEmployeeNotLinked) {
			s.logger.Debug("notification skipped, user has no employee", zap.String("user_id", params.UserID))
			return nil
		}
		return fmt.Errorf("resolve notification recipient: %w", err)
	}

	employeeID := employee.ID
	n := &models.Notification{
		Title:      params.Title,
		Body:       params.Message,
		EmployeeID: &employeeID,
		FormName:   params.FormName,
		RelatedID:  optionalString(params.RelatedID),
		CreatedBy:  optionalString(params.CreatedBy),
	}
	err = s.repo.Create(ctx, n)
	s.metrics.RecordNotification(ChannelStore, err)
	if err != nil {
		return fmt.Errorf("notify employee %s: %w", employeeID, err)
	}
	s.push(ctx, n, "employee", employeeID)
	return nil
}

// ListForUser returns the feed of the caller: notifications addressed to
// their employee record or to their role.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, role models.UserRole, unreadOnly bool, limit int) ([]models.Notification, error) {
	filter := models.NotificationFilter{UnreadOnly: unreadOnly, Limit: limit}
	if role != "" {
		filter.Roles = []models.UserRole{role}
	}
	employee, err := s.employees.ResolveByUserID(ctx, userID)
	switch {
	case err == nil:
		filter.EmployeeID = employee.ID
	case errors.Is(err, appErrors.ErrEmployeeNotLinked):
	default:
		return nil, err
	}

	items, err := s.repo.ListForRecipient(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list notifications")
	}
	return items, nil
}

// DeliverPush publishes a queued push delivery. It is the queue handler.
func (s *NotificationService) DeliverPush(ctx context.Context, job jobs.Job) error {
	delivery, ok := job.Payload.(pushDelivery)
	if !ok {
		return jobs.Permanent(fmt.Errorf("unexpected push payload %T", job.Payload))
	}
	err := s.publisher.Publish(ctx, delivery.Channel, delivery.Payload)
	s.metrics.RecordNotification(ChannelPush, err)
	return err
}

func (s *NotificationService) push(ctx context.Context, n *models.Notification, kind, key string) {
	if s.publisher == nil {
		return
	}
	if !s.publisher.Ready(ctx) {
		s.logger.Debug("push dispatcher unavailable, skipping", zap.String("notification_id", n.ID))
		return
	}

	payload, err := json.Marshal(dto.PushMessage{
		NotificationID: n.ID,
		Title:          n.Title,
		Body:           n.Body,
		FormName:       n.FormName,
		RelatedID:      stringValue(n.RelatedID),
		Role:           n.TargetRole,
		EmployeeID:     n.EmployeeID,
	})
	if err != nil {
		s.logger.Warn("failed to encode push payload", zap.String("notification_id", n.ID), zap.Error(err))
		return
	}

	job := jobs.Job{
		ID:      n.ID,
		Type:    JobTypePush,
		Payload: pushDelivery{Channel: s.publisher.Channel(kind, key), Payload: payload},
	}
	if s.queue != nil {
		if err := s.queue.TryEnqueue(job); err != nil {
			s.metrics.RecordNotification(ChannelPush, err)
			s.logger.Warn("failed to enqueue push", zap.String("notification_id", n.ID), zap.Error(err))
		}
		return
	}
	if err := s.DeliverPush(ctx, job); err != nil {
		s.logger.Warn("push delivery failed", zap.String("notification_id", n.ID), zap.Error(err))
	}
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
