package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type clinicFixture struct {
	users        *fakeUserRepo
	appointments *fakeAppointmentRepo
	payments     *fakePaymentRepo
	audit        *fakeAuditService
	appointment  *appointmentUsecase
	payment      PaymentUsecase
	admin        AdminUsecase
	patient      *entity.User
	doctor       *entity.User
	now          time.Time
}

func newClinicFixture(t *testing.T) *clinicFixture {
	t.Helper()

	f := &clinicFixture{
		users:        newFakeUserRepo(),
		appointments: newFakeAppointmentRepo(),
		audit:        &fakeAuditService{},
		now:          time.Date(2026, 10, 16, 11, 0, 0, 0, time.Local),
	}
	f.payments = newFakePaymentRepo(f.appointments)
	f.appointment = NewAppointmentUsecase(testLogger(), f.users, f.appointments, f.audit).(*appointmentUsecase)
	f.appointment.now = func() time.Time { return f.now }
	f.payment = NewPaymentUsecase(testLogger(), f.appointments, f.payments, f.audit)
	f.admin = NewAdminUsecase(testLogger(), f.users, f.appointments, f.audit)
	f.patient = f.users.seedUser(t, entity.RolePatient, "p1@example.com", true)
	f.doctor = f.users.seedUser(t, entity.RoleDoctor, "d1@example.com", true)
	return f
}

func (f *clinicFixture) book(t *testing.T, date string, fee int64) *dto.AppointmentResponse {
	t.Helper()
	resp, err := f.appointment.Book(context.Background(), &dto.BookAppointmentRequest{
		PatientID: f.patient.ID.String(),
		DoctorID:  f.doctor.ID.String(),
		Date:      date,
		Fee:       decimal.NewFromInt(fee),
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	return resp
}

func TestBook_CreatesUnpaidAppointment(t *testing.T) {
	f := newClinicFixture(t)

	resp := f.book(t, "2026-10-20", 300)

	if resp.PaymentID != nil || resp.Completed {
		t.Errorf("new appointment must be unpaid and not completed: %+v", resp)
	}
	if resp.PatientName != "Patient Tester" || resp.DoctorName != "Doctor Tester" {
		t.Errorf("names not copied: %+v", resp)
	}
	if resp.Date != "2026-10-20" {
		t.Errorf("unexpected date %q", resp.Date)
	}

	// Same slot twice is allowed.
	f.book(t, "2026-10-20", 300)
}

func TestBook_UnknownParties(t *testing.T) {
	f := newClinicFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.BookAppointmentRequest
		want error
	}{
		{"unknown patient", dto.BookAppointmentRequest{PatientID: uuid.NewString(), DoctorID: f.doctor.ID.String(), Date: "2026-10-20"}, ErrPatientNotFound},
		{"doctor as patient", dto.BookAppointmentRequest{PatientID: f.doctor.ID.String(), DoctorID: f.doctor.ID.String(), Date: "2026-10-20"}, ErrPatientNotFound},
		{"unknown doctor", dto.BookAppointmentRequest{PatientID: f.patient.ID.String(), DoctorID: uuid.NewString(), Date: "2026-10-20"}, ErrDoctorNotFound},
		{"bad date", dto.BookAppointmentRequest{PatientID: f.patient.ID.String(), DoctorID: f.doctor.ID.String(), Date: "20/10/2026"}, ErrInvalidDateFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Fee = decimal.NewFromInt(100)
			if _, err := f.appointment.Book(ctx, &tt.req); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAcceptPayment_CopiesFeeAndLinks(t *testing.T) {
	f := newClinicFixture(t)
	apt := f.book(t, "2026-10-20", 500)
	ctx := context.Background()

	payment, err := f.payment.AcceptPayment(ctx, uuid.New(), &dto.AcceptPaymentRequest{
		AppointmentID: apt.ID.String(),
		PaymentMethod: "UPI",
		TransactionID: "TXN-1",
	})
	if err != nil {
		t.Fatalf("accept payment: %v", err)
	}

	if !payment.Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected amount 500, got %s", payment.Amount)
	}
	if payment.Status != string(entity.PaymentStatusCompleted) {
		t.Errorf("expected completed status, got %q", payment.Status)
	}

	stored, _ := f.appointments.FindByID(ctx, apt.ID)
	if stored.PaymentID == nil || *stored.PaymentID != payment.ID {
		t.Errorf("appointment not linked to payment: %v", stored.PaymentID)
	}
}

func TestAcceptPayment_SecondPaymentConflicts(t *testing.T) {
	f := newClinicFixture(t)
	apt := f.book(t, "2026-10-20", 500)
	ctx := context.Background()
	req := &dto.AcceptPaymentRequest{AppointmentID: apt.ID.String(), PaymentMethod: "Cash"}

	if _, err := f.payment.AcceptPayment(ctx, uuid.New(), req); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if _, err := f.payment.AcceptPayment(ctx, uuid.New(), req); !errors.Is(err, ErrAppointmentAlreadyPaid) {
		t.Fatalf("expected ErrAppointmentAlreadyPaid, got %v", err)
	}
	if f.payments.count() != 1 {
		t.Errorf("expected exactly one payment, got %d", f.payments.count())
	}
}

func TestAcceptPayment_ConcurrentOnlyOneWins(t *testing.T) {
	f := newClinicFixture(t)
	apt := f.book(t, "2026-10-20", 500)
	req := &dto.AcceptPaymentRequest{AppointmentID: apt.ID.String(), PaymentMethod: "Card"}

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.payment.AcceptPayment(context.Background(), uuid.New(), req); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly one successful payment, got %d", successes)
	}
	if f.payments.count() != 1 {
		t.Errorf("expected one stored payment, got %d", f.payments.count())
	}
}

func TestAcceptPayment_UnknownAppointment(t *testing.T) {
	f := newClinicFixture(t)

	_, err := f.payment.AcceptPayment(context.Background(), uuid.New(), &dto.AcceptPaymentRequest{
		AppointmentID: uuid.NewString(),
		PaymentMethod: "Cash",
	})
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestDoctorAppointments_OnlyPaidAndUpcoming(t *testing.T) {
	f := newClinicFixture(t)
	ctx := context.Background()

	past := f.book(t, "2026-10-15", 100)
	today := f.book(t, "2026-10-16", 100)
	future := f.book(t, "2026-11-01", 100)
	unpaid := f.book(t, "2026-11-02", 100)

	for _, apt := range []*dto.AppointmentResponse{past, today, future} {
		if _, err := f.payment.AcceptPayment(ctx, uuid.New(), &dto.AcceptPaymentRequest{AppointmentID: apt.ID.String(), PaymentMethod: "Cash"}); err != nil {
			t.Fatalf("pay: %v", err)
		}
	}

	list, err := f.appointment.DoctorAppointments(ctx, f.doctor.ID)
	if err != nil {
		t.Fatalf("doctor appointments: %v", err)
	}

	got := make(map[uuid.UUID]bool)
	for _, a := range list {
		got[a.ID] = true
	}
	if !got[today.ID] || !got[future.ID] {
		t.Errorf("expected today and future appointments, got %v", got)
	}
	if got[past.ID] || got[unpaid.ID] {
		t.Errorf("past or unpaid appointment leaked into list: %v", got)
	}

	empty, err := f.appointment.DoctorAppointments(ctx, uuid.New())
	if err != nil {
		t.Fatalf("unknown doctor: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil list, got %v", empty)
	}
}

func TestMarkCompleted(t *testing.T) {
	f := newClinicFixture(t)
	ctx := context.Background()

	if err := f.appointment.MarkCompleted(ctx, uuid.New()); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}

	// Unpaid and future-dated appointments can still be completed.
	apt := f.book(t, "2030-01-01", 100)
	if err := f.appointment.MarkCompleted(ctx, apt.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	stored, _ := f.appointments.FindByID(ctx, apt.ID)
	if !stored.Completed {
		t.Error("expected appointment to be completed")
	}
}

func TestFeedbackLifecycle(t *testing.T) {
	f := newClinicFixture(t)
	ctx := context.Background()
	apt := f.book(t, "2026-10-16", 100)
	req := &dto.WriteFeedbackRequest{AppointmentID: apt.ID.String(), Review: "Very kind", Rating: 4}

	if _, err := f.appointment.WriteFeedback(ctx, f.patient.ID, req); !errors.Is(err, ErrAppointmentNotCompleted) {
		t.Fatalf("expected ErrAppointmentNotCompleted, got %v", err)
	}

	if err := f.appointment.MarkCompleted(ctx, apt.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	if _, err := f.appointment.WriteFeedback(ctx, uuid.New(), req); !errors.Is(err, ErrNotAppointmentOwner) {
		t.Fatalf("expected ErrNotAppointmentOwner, got %v", err)
	}

	resp, err := f.appointment.WriteFeedback(ctx, f.patient.ID, req)
	if err != nil {
		t.Fatalf("write feedback: %v", err)
	}
	if !resp.Feedback || resp.Review != "Very kind" || *resp.Rating != 4 {
		t.Errorf("unexpected feedback %+v", resp)
	}

	feedbacks, _ := f.appointment.DoctorFeedbacks(ctx, f.doctor.ID)
	if len(feedbacks) != 1 {
		t.Fatalf("expected 1 feedback, got %d", len(feedbacks))
	}

	if err := f.appointment.DeleteFeedback(ctx, f.patient.ID, apt.ID); err != nil {
		t.Fatalf("delete feedback: %v", err)
	}
	stored, _ := f.appointments.FindByID(ctx, apt.ID)
	if stored == nil {
		t.Fatal("deleting feedback must keep the appointment")
	}
	if stored.Feedback || stored.Review != "" || stored.Rating != nil {
		t.Errorf("feedback fields not cleared: %+v", stored)
	}
}

func TestCancel(t *testing.T) {
	f := newClinicFixture(t)
	ctx := context.Background()

	unpaid := f.book(t, "2026-10-20", 100)
	paid := f.book(t, "2026-10-21", 100)
	if _, err := f.payment.AcceptPayment(ctx, uuid.New(), &dto.AcceptPaymentRequest{AppointmentID: paid.ID.String(), PaymentMethod: "Cash"}); err != nil {
		t.Fatalf("pay: %v", err)
	}

	if err := f.appointment.Cancel(ctx, uuid.New(), unpaid.ID); !errors.Is(err, ErrNotAppointmentOwner) {
		t.Errorf("expected ErrNotAppointmentOwner, got %v", err)
	}
	if err := f.appointment.Cancel(ctx, f.patient.ID, paid.ID); !errors.Is(err, ErrAppointmentNotCancellable) {
		t.Errorf("expected ErrAppointmentNotCancellable, got %v", err)
	}
	if err := f.appointment.Cancel(ctx, f.patient.ID, unpaid.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	due, _ := f.appointment.DuePayments(ctx, f.patient.ID)
	if len(due) != 0 {
		t.Errorf("expected no due payments after cancel, got %d", len(due))
	}
	mine, _ := f.appointment.PatientAppointments(ctx, f.patient.ID)
	if len(mine) != 1 || mine[0].ID != paid.ID {
		t.Errorf("expected only the paid appointment, got %+v", mine)
	}
}

func TestEndToEnd_BookPayCompleteStats(t *testing.T) {
	f := newClinicFixture(t)
	ctx := context.Background()

	apt := f.book(t, "2026-10-18", 300)

	if _, err := f.payment.AcceptPayment(ctx, uuid.New(), &dto.AcceptPaymentRequest{AppointmentID: apt.ID.String(), PaymentMethod: "Card"}); err != nil {
		t.Fatalf("accept payment: %v", err)
	}

	upcoming, err := f.appointment.DoctorAppointments(ctx, f.doctor.ID)
	if err != nil {
		t.Fatalf("doctor appointments: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != apt.ID {
		t.Fatalf("expected booked appointment in doctor list, got %+v", upcoming)
	}

	if err := f.appointment.MarkCompleted(ctx, apt.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	stats, err := f.admin.GenerateDoctorStats(ctx, f.doctor.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAppointments != 1 {
		t.Errorf("expected 1 appointment, got %d", stats.TotalAppointments)
	}
	if !stats.TotalEarnings.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected earnings 300, got %s", stats.TotalEarnings)
	}
	if stats.UniquePatients != 1 {
		t.Errorf("expected 1 unique patient, got %d", stats.UniquePatients)
	}
}
