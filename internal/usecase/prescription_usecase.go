package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/internal/service"
	"medcare-api/pkg/document"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	prescriptionContentType = "application/pdf"
	prescribedDateLayout    = "Jan 2, 2006, 03:04 PM"
)

var (
	ErrPrescriptionFieldsMissing = errors.New("aptid, patid, docid, patname and docname are required")
	ErrNotPrescribingDoctor      = errors.New("prescription must be issued by the appointment's doctor")
	ErrAppointmentMismatch       = errors.New("appointment does not match patient and doctor")
	ErrFileUploadFailed          = errors.New("file upload failed")
)

// FileStorage stores a blob and returns the URL it can be fetched from.
type FileStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type PrescriptionRenderer interface {
	RenderPrescription(data document.PrescriptionData) ([]byte, error)
}

type PrescriptionUsecase interface {
	Upload(ctx context.Context, doctorID uuid.UUID, req *dto.UploadPrescriptionRequest) (*dto.UploadPrescriptionResponse, error)
	DoctorPrescriptions(ctx context.Context, doctorID uuid.UUID) ([]dto.PrescriptionResponse, error)
	PatientPrescriptions(ctx context.Context, patientID uuid.UUID) ([]dto.PrescriptionResponse, error)
}

type prescriptionUsecase struct {
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	prescriptionRepo repository.PrescriptionRepository
	renderer         PrescriptionRenderer
	storage          FileStorage
	auditService     service.AuditService
	location         *time.Location
	uploadTimeout    time.Duration
	now              func() time.Time
}

func NewPrescriptionUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	prescriptionRepo repository.PrescriptionRepository,
	renderer PrescriptionRenderer,
	storage FileStorage,
	auditService service.AuditService,
	location *time.Location,
	uploadTimeout time.Duration,
) PrescriptionUsecase {
	if location == nil {
		location = time.UTC
	}
	return &prescriptionUsecase{
		log:              log,
		appointmentRepo:  appointmentRepo,
		prescriptionRepo: prescriptionRepo,
		renderer:         renderer,
		storage:          storage,
		auditService:     auditService,
		location:         location,
		uploadTimeout:    uploadTimeout,
		now:              time.Now,
	}
}

// Upload renders the prescription, stores the PDF and then persists the record.
// A storage failure is returned as ErrFileUploadFailed and nothing is persisted.
// Uploads are not retried.
func (u *prescriptionUsecase) Upload(ctx context.Context, doctorID uuid.UUID, req *dto.UploadPrescriptionRequest) (*dto.UploadPrescriptionResponse, error) {
	ids, err := parsePrescriptionIDs(req)
	if err != nil {
		return nil, err
	}
	if ids.doctor != doctorID {
		return nil, ErrNotPrescribingDoctor
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, ids.appointment)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != ids.doctor || appointment.PatientID != ids.patient {
		return nil, ErrAppointmentMismatch
	}

	issuedAt := u.now().In(u.location)
	details := make(entity.MedicineDetails, len(req.Details))
	medicines := make([]document.Medicine, len(req.Details))
	for i, d := range req.Details {
		details[i] = entity.MedicineDetail{Medicine: d.Medicine, Dose: d.Dose, Tip: d.Tip}
		medicines[i] = document.Medicine{Name: d.Medicine, Dose: d.Dose, Tip: d.Tip}
	}

	pdf, err := u.renderer.RenderPrescription(document.PrescriptionData{
		PatientName: req.PatientName,
		DoctorName:  req.DoctorName,
		IssuedAt:    issuedAt,
		Medicines:   medicines,
	})
	if err != nil {
		u.log.Warnf("Failed to render prescription: %+v", err)
		return nil, err
	}

	key := fmt.Sprintf("prescriptions/%d_%s_prescription.pdf", issuedAt.UnixNano(), uuid.NewString())

	uploadCtx, cancel := context.WithTimeout(ctx, u.uploadTimeout)
	defer cancel()

	fileURL, err := u.storage.Upload(uploadCtx, key, prescriptionContentType, pdf)
	if err != nil {
		u.log.Warnf("Failed to upload prescription %s: %+v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrFileUploadFailed, err)
	}

	prescription := &entity.Prescription{
		AppointmentID:  ids.appointment,
		PatientID:      ids.patient,
		DoctorID:       ids.doctor,
		PatientName:    req.PatientName,
		DoctorName:     req.DoctorName,
		Details:        details,
		Prescribed:     true,
		FileURL:        fileURL,
		PrescribedDate: issuedAt.Format(prescribedDateLayout),
	}

	if err := u.prescriptionRepo.Create(ctx, prescription); err != nil {
		u.log.Warnf("Failed to create prescription for uploaded file %s: %+v", fileURL, err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, &doctorID, entity.AuditActionPrescriptionUpload, "prescription", prescription.ID.String(),
		map[string]interface{}{"aptid": ids.appointment, "file": fileURL})

	return &dto.UploadPrescriptionResponse{FileURL: fileURL}, nil
}

type prescriptionIDs struct {
	appointment uuid.UUID
	patient     uuid.UUID
	doctor      uuid.UUID
}

func parsePrescriptionIDs(req *dto.UploadPrescriptionRequest) (*prescriptionIDs, error) {
	if strings.TrimSpace(req.PatientName) == "" || strings.TrimSpace(req.DoctorName) == "" {
		return nil, ErrPrescriptionFieldsMissing
	}

	var ids prescriptionIDs
	var err error
	if ids.appointment, err = uuid.Parse(req.AppointmentID); err != nil {
		return nil, ErrPrescriptionFieldsMissing
	}
	if ids.patient, err = uuid.Parse(req.PatientID); err != nil {
		return nil, ErrPrescriptionFieldsMissing
	}
	if ids.doctor, err = uuid.Parse(req.DoctorID); err != nil {
		return nil, ErrPrescriptionFieldsMissing
	}
	return &ids, nil
}

func (u *prescriptionUsecase) DoctorPrescriptions(ctx context.Context, doctorID uuid.UUID) ([]dto.PrescriptionResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByDoctor(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor prescriptions: %+v", err)
		return nil, err
	}
	return converter.PrescriptionsToResponses(prescriptions), nil
}

func (u *prescriptionUsecase) PatientPrescriptions(ctx context.Context, patientID uuid.UUID) ([]dto.PrescriptionResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient prescriptions: %+v", err)
		return nil, err
	}
	return converter.PrescriptionsToResponses(prescriptions), nil
}
