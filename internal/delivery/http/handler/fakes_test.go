package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/delivery/http/middleware"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"

	"github.com/google/uuid"
)

// Fakes embed the usecase interface so tests only implement what they exercise.

type fakeAuthUsecase struct {
	usecase.AuthUsecase
	signupErr  error
	signinErr  error
	refreshErr error
	resetErr   error
	loggedOut  []string
}

func (f *fakeAuthUsecase) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &dto.UserResponse{ID: uuid.New(), Email: req.Email, UserType: req.UserType}, nil
}

func (f *fakeAuthUsecase) Signin(ctx context.Context, req *dto.SigninRequest) (*dto.SigninResponse, error) {
	if f.signinErr != nil {
		return nil, f.signinErr
	}
	return &dto.SigninResponse{UserType: "Patient", AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}, nil
}

func (f *fakeAuthUsecase) Refresh(ctx context.Context, token string) (*dto.AccessTokenResponse, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	if token == "" {
		return nil, usecase.ErrRefreshTokenMissing
	}
	return &dto.AccessTokenResponse{AccessToken: "a2", ExpiresIn: 900}, nil
}

func (f *fakeAuthUsecase) Logout(ctx context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeAuthUsecase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	if len(req.NewPassword) > 72 {
		return usecase.ErrPasswordTooLong
	}
	return nil
}

type fakeAppointmentUsecase struct {
	usecase.AppointmentUsecase
	err        error
	gotDoctor  uuid.UUID
	gotPatient uuid.UUID
}

func (f *fakeAppointmentUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AppointmentResponse{ID: uuid.New(), Date: req.Date, Fee: req.Fee}, nil
}

func (f *fakeAppointmentUsecase) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return f.err
}

func (f *fakeAppointmentUsecase) DoctorAppointments(ctx context.Context, doctorID uuid.UUID) ([]dto.AppointmentResponse, error) {
	f.gotDoctor = doctorID
	return []dto.AppointmentResponse{}, f.err
}

func (f *fakeAppointmentUsecase) PatientAppointments(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error) {
	f.gotPatient = patientID
	return []dto.AppointmentResponse{}, f.err
}

func (f *fakeAppointmentUsecase) Cancel(ctx context.Context, patientID, id uuid.UUID) error {
	f.gotPatient = patientID
	return f.err
}

func (f *fakeAppointmentUsecase) WriteFeedback(ctx context.Context, patientID uuid.UUID, req *dto.WriteFeedbackRequest) (*dto.AppointmentResponse, error) {
	f.gotPatient = patientID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AppointmentResponse{Feedback: true, Rating: &req.Rating}, nil
}

type fakePrescriptionUsecase struct {
	usecase.PrescriptionUsecase
	err error
}

func (f *fakePrescriptionUsecase) Upload(ctx context.Context, doctorID uuid.UUID, req *dto.UploadPrescriptionRequest) (*dto.UploadPrescriptionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UploadPrescriptionResponse{FileURL: "https://files.example.com/p.pdf"}, nil
}

type fakePaymentUsecase struct {
	usecase.PaymentUsecase
	err error
}

func (f *fakePaymentUsecase) AcceptPayment(ctx context.Context, staffID uuid.UUID, req *dto.AcceptPaymentRequest) (*dto.PaymentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.PaymentResponse{ID: uuid.New(), AppointmentID: uuid.MustParse(req.AppointmentID), Status: "completed"}, nil
}

type fakeAdminUsecase struct {
	usecase.AdminUsecase
	err error
}

func (f *fakeAdminUsecase) GenerateDoctorStats(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorStatsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.DoctorStatsResponse{DoctorID: doctorID, AverageRating: usecase.NoRatings}, nil
}

func (f *fakeAdminUsecase) Reject(ctx context.Context, adminID, userID uuid.UUID) error {
	return f.err
}

// helpers

func jsonRequest(method, target string, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(req *http.Request, id uuid.UUID, role entity.Role) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), id, role))
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, rec.Code, rec.Body.String())
	}
	body := decodeResponse(t, rec)
	if !body.Error {
		t.Error("expected error flag")
	}
	if msg != "" && body.ErrorMsg != msg {
		t.Errorf("expected message %q, got %q", msg, body.ErrorMsg)
	}
}
