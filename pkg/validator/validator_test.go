package validator

import (
	"testing"

	"github.com/shopspring/decimal"
)

type bookingInput struct {
	PatientID string          `json:"patid" validate:"required,uuid"`
	Date      string          `json:"date" validate:"required,datetime=2006-01-02"`
	Fee       decimal.Decimal `json:"fee" validate:"required,gt=0,money"`
	Rating    int             `json:"rating" validate:"omitempty,min=1,max=5"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&bookingInput{PatientID: "nope", Date: "16-10-2026", Fee: decimal.Zero, Rating: 9})
	if err == nil {
		t.Fatal("expected validation error")
	}

	errs := v.FormatValidationErrors(err)
	want := map[string]string{
		"patid":  "patid must be a valid UUID",
		"date":   "date must match the format 2006-01-02",
		"fee":    "fee is required",
		"rating": "rating must be at most 5",
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, errs[field])
		}
	}
}

func TestValidate_DecimalGreaterThanZero(t *testing.T) {
	v := NewValidator()

	in := bookingInput{
		PatientID: "6f1c1a52-2b0a-4a57-9d55-0c1f3f0f6a11",
		Date:      "2026-10-16",
		Fee:       decimal.NewFromInt(-5),
	}
	errs := v.FormatValidationErrors(v.Validate(&in))
	if errs["fee"] != "fee must be greater than 0" {
		t.Errorf("unexpected fee error %q", errs["fee"])
	}

	in.Fee = decimal.NewFromInt(300)
	if err := v.Validate(&in); err != nil {
		t.Errorf("expected valid input, got %v", err)
	}
}

func TestValidate_MoneyPrecision(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		fee   string
		valid bool
	}{
		{"99.99", true},
		{"500", true},
		{"9999999999.99", true},
		{"0.001", false},
		{"12.345", false},
		{"10000000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.fee, func(t *testing.T) {
			in := bookingInput{
				PatientID: "6f1c1a52-2b0a-4a57-9d55-0c1f3f0f6a11",
				Date:      "2026-10-16",
				Fee:       decimal.RequireFromString(tt.fee),
			}
			err := v.Validate(&in)
			if tt.valid {
				if err != nil {
					t.Errorf("expected valid, got %v", err)
				}
				return
			}
			errs := v.FormatValidationErrors(err)
			if errs["fee"] != "fee must have at most 2 decimal places and 10 integer digits" {
				t.Errorf("unexpected fee error %q", errs["fee"])
			}
		})
	}
}
