package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillnaav/skillnaav-api/internal/dto"
	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
	"github.com/skillnaav/skillnaav-api/pkg/jobs"
	"github.com/skillnaav/skillnaav-api/pkg/pdf"
	"github.com/skillnaav/skillnaav-api/pkg/storage"
)

const (
	downloadPathPrefix = "/api/offer-letters/download/"
	offerLetterPrefix  = "offer-letters"
	pdfContentType     = "application/pdf"
)

type offerLetterRepository interface {
	Create(ctx context.Context, letter *models.OfferLetter) error
	FindByID(ctx context.Context, id string) (*models.OfferLetter, error)
	FindLatestByStudent(ctx context.Context, studentID string) (*models.OfferLetter, error)
	UpdateStatus(ctx context.Context, id string, status models.OfferLetterStatus) (bool, error)
}

type offerLetterRenderer interface {
	Render(letter pdf.OfferLetter) ([]byte, error)
}

type blobStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type urlSigner interface {
	Generate(ownerID, relPath string) (string, time.Time, error)
	Parse(token string) (ownerID, relPath string, expiresAt time.Time, err error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// OfferLetterFile is a stored offer letter ready to stream.
type OfferLetterFile struct {
	Name    string
	Content io.ReadCloser
}

// OfferLetterService issues offer letters and tracks the student's response.
type OfferLetterService struct {
	repo      offerLetterRepository
	renderer  offerLetterRenderer
	blobs     blobStore
	signer    urlSigner
	queue     jobEnqueuer
	validator *validator.Validate
	baseURL   string
	logger    *zap.Logger
}

// NewOfferLetterService constructs the service. baseURL prefixes generated download links.
func NewOfferLetterService(repo offerLetterRepository, renderer offerLetterRenderer, blobs blobStore, signer urlSigner, queue jobEnqueuer, validate *validator.Validate, baseURL string, logger *zap.Logger) *OfferLetterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferLetterService{
		repo:      repo,
		renderer:  renderer,
		blobs:     blobs,
		signer:    signer,
		queue:     queue,
		validator: validate,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

func parseOfferDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, NormalizeDate(raw))
}

// Send renders, stores and records an offer letter, then queues the student notifications.
func (s *OfferLetterService) Send(ctx context.Context, req dto.SendOfferLetterRequest) (*models.OfferLetter, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing required fields")
	}
	startDate, err := parseOfferDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid start date")
	}

	doc := pdf.OfferLetter{
		CandidateName:  req.Name,
		CandidateEmail: req.Email,
		Position:       req.Position,
		CompanyName:    req.CompanyName,
		Location:       req.Location,
		StartDate:      startDate,
		Duration:       req.Duration,
		InternshipType: req.InternshipType,
		Compensation:   compensationDocument(req.Compensation),
		JobDescription: req.JobDescription,
		Qualifications: req.Qualifications,
		NoticePeriod:   req.NoticePeriod,
		Contact:        pdf.Contact{Name: req.Contact.Name, Email: req.Contact.Email, Phone: req.Contact.Phone},
	}
	content, err := s.renderer.Render(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate offer letter")
	}

	id := uuid.NewString()
	stored := path.Join(offerLetterPrefix, id+".pdf")
	if err := s.blobs.Save(ctx, stored, content, pdfContentType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store offer letter")
	}
	downloadURL, err := s.downloadURL(id, stored)
	if err != nil {
		s.discard(ctx, stored)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign offer letter link")
	}

	letter := &models.OfferLetter{
		ID:          id,
		StudentID:   req.StudentID,
		Name:        req.Name,
		Email:       req.Email,
		Position:    req.Position,
		CompanyName: req.CompanyName,
		Location:    req.Location,
		StartDate:   startDate,
		Status:      models.OfferLetterSent,
		FilePath:    stored,
		DownloadURL: downloadURL,
	}
	if req.InternshipID != "" {
		internshipID := req.InternshipID
		letter.InternshipID = &internshipID
	}
	if err := s.repo.Create(ctx, letter); err != nil {
		s.discard(ctx, stored)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save offer letter")
	}

	s.notify(letter)
	s.logger.Info("offer letter sent", zap.String("offer_letter_id", letter.ID), zap.String("student_id", letter.StudentID))
	return letter, nil
}

// discard removes an uploaded letter whose record could not be written.
func (s *OfferLetterService) discard(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to remove orphaned offer letter", zap.String("key", key), zap.Error(err))
	}
}

func compensationDocument(c dto.CompensationRequest) pdf.Compensation {
	costs := make([]pdf.Cost, 0, len(c.AdditionalCosts))
	for _, cost := range c.AdditionalCosts {
		costs = append(costs, pdf.Cost{Description: cost.Description, Amount: cost.Amount, Currency: cost.Currency})
	}
	return pdf.Compensation{
		Amount:          c.Amount,
		Currency:        c.Currency,
		Frequency:       c.Frequency,
		Benefits:        c.Benefits,
		AdditionalCosts: costs,
	}
}

func (s *OfferLetterService) notify(letter *models.OfferLetter) {
	if s.queue == nil {
		return
	}
	company := letter.CompanyName
	if company == "" {
		company = "SkillNaav"
	}
	queued := []jobs.Job{
		{Type: JobInAppNotification, Payload: InAppPayload{
			StudentID: letter.StudentID,
			Title:     "Offer Letter Received",
			Message:   fmt.Sprintf("You have received an offer letter for the %s position.", letter.Position),
			Link:      letter.DownloadURL,
		}},
		{Type: JobEmailNotification, Payload: EmailPayload{
			To:      letter.Email,
			Subject: fmt.Sprintf("Your Offer Letter from %s", company),
			Message: fmt.Sprintf("Dear %s,\nCongratulations! You have been offered the %s position at %s.\nDownload your offer letter: %s",
				letter.Name, letter.Position, company, letter.DownloadURL),
		}},
	}
	for _, job := range queued {
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to queue offer letter notification", zap.String("type", job.Type), zap.String("offer_letter_id", letter.ID), zap.Error(err))
		}
	}
}

func (s *OfferLetterService) downloadURL(id, stored string) (string, error) {
	token, _, err := s.signer.Generate(id, stored)
	if err != nil {
		return "", err
	}
	return s.baseURL + downloadPathPrefix + token, nil
}

// refreshLink re-signs the download link so it is valid for a full TTL from now.
func (s *OfferLetterService) refreshLink(letter *models.OfferLetter) {
	if letter.FilePath == "" {
		return
	}
	if link, err := s.downloadURL(letter.ID, letter.FilePath); err == nil {
		letter.DownloadURL = link
	}
}

// LatestForStudent returns the newest offer letter sent to a student.
func (s *OfferLetterService) LatestForStudent(ctx context.Context, studentID string) (*models.OfferLetter, error) {
	letter, err := s.repo.FindLatestByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "No offer letter found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offer letter")
	}
	s.refreshLink(letter)
	return letter, nil
}

// UpdateStatus records whether the student accepted or rejected the offer.
func (s *OfferLetterService) UpdateStatus(ctx context.Context, id string, req dto.UpdateOfferLetterStatusRequest) (*models.OfferLetter, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Status must be Accepted or Rejected")
	}
	ok, err := s.repo.UpdateStatus(ctx, id, models.OfferLetterStatus(req.Status))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update offer letter")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Offer letter not found")
	}
	letter, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offer letter")
	}
	s.refreshLink(letter)
	return letter, nil
}

// Download validates a signed token and opens the referenced offer letter.
func (s *OfferLetterService) Download(ctx context.Context, token string) (*OfferLetterFile, error) {
	id, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "Invalid or expired download link")
	}
	letter, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Offer letter not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offer letter")
	}
	if letter.FilePath != relPath {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid or expired download link")
	}
	content, err := s.blobs.Open(ctx, relPath)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "Offer letter file not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open offer letter")
	}
	name := strings.ReplaceAll(strings.TrimSpace(letter.Name), " ", "_")
	if name == "" {
		name = letter.ID
	}
	return &OfferLetterFile{Name: fmt.Sprintf("OfferLetter_%s.pdf", name), Content: content}, nil
}
