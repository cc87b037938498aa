package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
	"github.com/skillnaav/skillnaav-api/pkg/jobs"
	"github.com/skillnaav/skillnaav-api/pkg/mail"
)

// Job types handled by the notification queue.
const (
	JobInAppNotification = "notification.in_app"
	JobEmailNotification = "notification.email"

	channelInApp = "in_app"
	channelEmail = "email"
)

// InAppPayload is the payload of an in-app notification job.
type InAppPayload struct {
	StudentID string
	Title     string
	Message   string
	Link      string
}

// EmailPayload is the payload of an email notification job.
type EmailPayload struct {
	To      string
	Subject string
	Message string
}

type notificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByStudent(ctx context.Context, studentID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) (bool, error)
}

type mailSender interface {
	Send(ctx context.Context, msg mail.Message) error
}

type jobRegistrar interface {
	Register(jobType string, handler jobs.Handler)
}

var emailTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background:#f4f6fb;">
  <table width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center" style="padding:24px;">
      <table width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;overflow:hidden;">
        <tr><td style="background:#1a56db;color:#ffffff;padding:20px;font-size:24px;font-weight:bold;text-align:center;">SkillNaav</td></tr>
        <tr><td style="padding:24px;color:#1f2937;">
          <h2 style="margin-top:0;">{{.Subject}}</h2>
          {{range .Paragraphs}}<p style="line-height:1.5;">{{.}}</p>{{end}}
          <p style="margin-top:24px;"><a href="https://skillnaav.com" style="color:#1a56db;">Visit SkillNaav</a></p>
        </td></tr>
        <tr><td style="background:#f9fafb;color:#6b7280;padding:16px;font-size:12px;text-align:center;">
          Questions? Contact us at <a href="mailto:{{.Support}}" style="color:#6b7280;">{{.Support}}</a>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

const supportEmail = "support@skillnaav.com"

type emailView struct {
	Subject    string
	Paragraphs []string
	Support    string
}

// NotificationService delivers email and in-app notifications.
type NotificationService struct {
	repo    notificationRepository
	mailer  mailSender
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotificationService constructs the service. mailer and metrics may be nil.
func NewNotificationService(repo notificationRepository, mailer mailSender, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, mailer: mailer, metrics: metrics, logger: logger}
}

// RenderEmail renders the branded notification body.
func RenderEmail(subject, message string) (string, error) {
	view := emailView{Subject: subject, Support: supportEmail}
	for _, p := range strings.Split(message, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			view.Paragraphs = append(view.Paragraphs, p)
		}
	}
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render notification email: %w", err)
	}
	return buf.String(), nil
}

// NotifyUser sends a branded email to one recipient.
func (s *NotificationService) NotifyUser(ctx context.Context, email, subject, message string) error {
	if s.mailer == nil {
		return errors.New("mailer not configured")
	}
	body, err := RenderEmail(subject, message)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, mail.Message{To: email, Subject: subject, HTMLBody: body, TextBody: message})
}

// CreateInApp stores a dashboard notification for a student.
func (s *NotificationService) CreateInApp(ctx context.Context, studentID, title, message, link string) (*models.Notification, error) {
	if strings.TrimSpace(studentID) == "" || strings.TrimSpace(message) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId and message are required")
	}
	n := &models.Notification{StudentID: studentID, Title: title, Message: message, Link: link}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}
	return n, nil
}

// ListForStudent returns the newest notifications for a student.
func (s *NotificationService) ListForStudent(ctx context.Context, studentID string, limit int) ([]models.Notification, error) {
	items, err := s.repo.ListByStudent(ctx, studentID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	if items == nil {
		items = []models.Notification{}
	}
	return items, nil
}

// MarkRead flags a notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	ok, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Notification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notification")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Notification not found")
	}
	return nil
}

// RegisterJobs binds the notification handlers to a queue.
func (s *NotificationService) RegisterJobs(q jobRegistrar) {
	q.Register(JobInAppNotification, s.handleInApp)
	q.Register(JobEmailNotification, s.handleEmail)
}

// JobFinished records the final outcome of a notification job.
func (s *NotificationService) JobFinished(job jobs.Job, err error) {
	channel := channelEmail
	if job.Type == JobInAppNotification {
		channel = channelInApp
	}
	s.metrics.RecordNotification(channel, err)
	if err != nil {
		s.logger.Error("notification dropped", zap.String("job_id", job.ID), zap.String("type", job.Type), zap.Error(err))
	}
}

func (s *NotificationService) handleInApp(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(InAppPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", job.Payload, job.Type)
	}
	_, err := s.CreateInApp(ctx, payload.StudentID, payload.Title, payload.Message, payload.Link)
	return err
}

func (s *NotificationService) handleEmail(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(EmailPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", job.Payload, job.Type)
	}
	return s.NotifyUser(ctx, payload.To, payload.Subject, payload.Message)
}
