package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"medcare-api/config"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/pkg/document"
	"medcare-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testJWTService() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		Issuer:        "medcare-test",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
}

// fakeUserRepo

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.Password = hash
	}
	return nil
}

func (f *fakeUserRepo) MarkVerified(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.Verified = true
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) FindUnverified(ctx context.Context) ([]entity.User, error) {
	return f.filter(func(u *entity.User) bool { return !u.Verified }), nil
}

func (f *fakeUserRepo) FindByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	return f.filter(func(u *entity.User) bool { return u.Role == role }), nil
}

func (f *fakeUserRepo) filter(keep func(*entity.User) bool) []entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.User
	for _, u := range f.users {
		if keep(u) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// seedUser stores a user whose password is "secret123".
func (f *fakeUserRepo) seedUser(t *testing.T, role entity.Role, email string, verified bool) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &entity.User{
		Role:      role,
		FirstName: string(role),
		LastName:  "Tester",
		Email:     email,
		Password:  string(hash),
		Verified:  verified,
	}
	if err := f.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// fakeTokenRepo

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]entity.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]entity.RefreshToken)}
}

func (f *fakeTokenRepo) Store(ctx context.Context, token *entity.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token.Token] = *token
	return nil
}

func (f *fakeTokenRepo) Find(ctx context.Context, token string) (*entity.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[token]; ok {
		return &t, nil
	}
	return nil, nil
}

func (f *fakeTokenRepo) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

// fakeAppointmentRepo

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	f.appointments[a.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.appointments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) FindUpcomingPaidByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]entity.Appointment, error) {
	fromDate := from.Format(entity.DateLayout)
	return f.filter(func(a *entity.Appointment) bool {
		return a.DoctorID == doctorID && a.PaymentID != nil && a.Date.Format(entity.DateLayout) >= fromDate
	}), nil
}

func (f *fakeAppointmentRepo) FindCompletedByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error) {
	return f.filter(func(a *entity.Appointment) bool { return a.DoctorID == doctorID && a.Completed }), nil
}

func (f *fakeAppointmentRepo) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	return f.filter(func(a *entity.Appointment) bool { return a.PatientID == patientID }), nil
}

func (f *fakeAppointmentRepo) FindUnpaidByPatient(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	return f.filter(func(a *entity.Appointment) bool { return a.PatientID == patientID && a.PaymentID == nil }), nil
}

func (f *fakeAppointmentRepo) FindUnpaid(ctx context.Context) ([]entity.Appointment, error) {
	return f.filter(func(a *entity.Appointment) bool { return a.PaymentID == nil }), nil
}

func (f *fakeAppointmentRepo) FindWithFeedback(ctx context.Context, doctorID *uuid.UUID) ([]entity.Appointment, error) {
	return f.filter(func(a *entity.Appointment) bool {
		return a.Feedback && (doctorID == nil || a.DoctorID == *doctorID)
	}), nil
}

func (f *fakeAppointmentRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.appointments[id]; ok {
		a.Completed = true
	}
	return nil
}

func (f *fakeAppointmentRepo) UpdateFeedback(ctx context.Context, id uuid.UUID, feedback bool, review string, rating *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.appointments[id]; ok {
		a.Feedback = feedback
		a.Review = review
		a.Rating = rating
	}
	return nil
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.appointments, id)
	return nil
}

func (f *fakeAppointmentRepo) filter(keep func(*entity.Appointment) bool) []entity.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Appointment
	for _, a := range f.appointments {
		if keep(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (f *fakeAppointmentRepo) seed(patientID, doctorID uuid.UUID, date time.Time, fee int64) *entity.Appointment {
	a := &entity.Appointment{
		PatientID:   patientID,
		DoctorID:    doctorID,
		PatientName: "Patient Tester",
		DoctorName:  "Doctor Tester",
		Date:        date,
		Fee:         decimal.NewFromInt(fee),
	}
	_ = f.Create(context.Background(), a)
	return a
}

// fakePaymentRepo links payments onto the shared appointment fake under its lock.
type fakePaymentRepo struct {
	appointments *fakeAppointmentRepo
	mu           sync.Mutex
	payments     map[uuid.UUID]entity.Payment
}

func newFakePaymentRepo(appointments *fakeAppointmentRepo) *fakePaymentRepo {
	return &fakePaymentRepo{appointments: appointments, payments: make(map[uuid.UUID]entity.Payment)}
}

func (f *fakePaymentRepo) CreateForAppointment(ctx context.Context, payment *entity.Payment) error {
	f.appointments.mu.Lock()
	defer f.appointments.mu.Unlock()

	a, ok := f.appointments.appointments[payment.AppointmentID]
	if !ok || a.PaymentID != nil {
		return repository.ErrAppointmentAlreadyPaid
	}
	id := payment.ID
	a.PaymentID = &id

	f.mu.Lock()
	f.payments[payment.AppointmentID] = *payment
	f.mu.Unlock()
	return nil
}

func (f *fakePaymentRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payments)
}

// fakePrescriptionRepo

type fakePrescriptionRepo struct {
	mu            sync.Mutex
	prescriptions []entity.Prescription
}

func (f *fakePrescriptionRepo) Create(ctx context.Context, p *entity.Prescription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.prescriptions = append(f.prescriptions, *p)
	return nil
}

func (f *fakePrescriptionRepo) FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Prescription
	for _, p := range f.prescriptions {
		if p.DoctorID == doctorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePrescriptionRepo) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]entity.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Prescription
	for _, p := range f.prescriptions {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeAuditService

type fakeAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAuditService) record(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
}

func (f *fakeAuditService) LogCreate(ctx context.Context, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) {
	f.record(action)
}

func (f *fakeAuditService) LogUpdate(ctx context.Context, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) {
	f.record(action)
}

func (f *fakeAuditService) LogDelete(ctx context.Context, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) {
	f.record(action)
}

func (f *fakeAuditService) LogEvent(ctx context.Context, userID *uuid.UUID, action string, metadata entity.JSON) {
	f.record(action)
}

func (f *fakeAuditService) has(action string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.actions {
		if a == action {
			return true
		}
	}
	return false
}

// fakeStorage, fakeRenderer, fakeMailer

type fakeStorage struct {
	keys     []string
	deadline bool
	err      error
}

func (f *fakeStorage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://files.example.com/" + key, nil
}

type fakeRenderer struct {
	last document.PrescriptionData
}

func (f *fakeRenderer) RenderPrescription(data document.PrescriptionData) ([]byte, error) {
	f.last = data
	return []byte("%PDF-fake"), nil
}

type fakeMailer struct {
	to   string
	body string
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.to = to
	f.body = body
	return nil
}
