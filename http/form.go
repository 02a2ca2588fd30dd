package http

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"loan-recovery/domain"
)

// InputError is returned when a submitted value cannot be coerced to its
// widget type or falls outside the widget bounds.
type InputError struct {
	Field  string
	Label  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Label, e.Reason)
}

// formValue returns the submitted value or the widget default when the
// field is missing or blank.
func formValue(values url.Values, in domain.InputField) string {
	v := strings.TrimSpace(values.Get(in.Name))
	if v == "" {
		return in.Default
	}
	return v
}

func parseNumber(values url.Values, in domain.InputField) (float64, error) {
	raw := formValue(values, in)

	var n float64
	switch in.Kind {
	case domain.KindInt:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return 0, &InputError{Field: in.Name, Label: in.Label, Reason: fmt.Sprintf("%q is not a whole number", raw)}
		}
		n = float64(i)
	default:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, &InputError{Field: in.Name, Label: in.Label, Reason: fmt.Sprintf("%q is not a number", raw)}
		}
		// ParseFloat accepts NaN and Inf, which slip past the bounds below
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, &InputError{Field: in.Name, Label: in.Label, Reason: fmt.Sprintf("%q is not a finite number", raw)}
		}
		n = f
	}

	if in.Min != nil && n < *in.Min {
		return 0, &InputError{Field: in.Name, Label: in.Label, Reason: fmt.Sprintf("must be at least %v", *in.Min)}
	}
	if in.Max != nil && n > *in.Max {
		return 0, &InputError{Field: in.Name, Label: in.Label, Reason: fmt.Sprintf("must be at most %v", *in.Max)}
	}
	return n, nil
}

// ParseBorrowerForm coerces submitted form values into a BorrowerRecord.
// Choice values are passed through untouched; the encoders decide
// whether they are known.
func ParseBorrowerForm(values url.Values) (domain.BorrowerRecord, error) {
	var rec domain.BorrowerRecord

	for _, in := range domain.BorrowerForm {
		switch in.Kind {
		case domain.KindText:
			rec.BorrowerID = strings.TrimSpace(values.Get(in.Name))
			continue
		case domain.KindChoice:
			setChoice(&rec, in.Name, formValue(values, in))
			continue
		}

		n, err := parseNumber(values, in)
		if err != nil {
			return domain.BorrowerRecord{}, err
		}
		setNumber(&rec, in.Name, n)
	}
	return rec, nil
}

func setChoice(rec *domain.BorrowerRecord, name, v string) {
	switch name {
	case domain.InputGender:
		rec.Gender = v
	case domain.InputEmploymentType:
		rec.EmploymentType = v
	case domain.InputLoanType:
		rec.LoanType = v
	case domain.InputCollectionMethod:
		rec.CollectionMethod = v
	case domain.InputLegalActionTaken:
		rec.LegalActionTaken = v
	}
}

func setNumber(rec *domain.BorrowerRecord, name string, n float64) {
	switch name {
	case domain.InputAge:
		rec.Age = int(n)
	case domain.InputMonthlyIncome:
		rec.MonthlyIncome = n
	case domain.InputNumDependents:
		rec.NumDependents = int(n)
	case domain.InputLoanAmount:
		rec.LoanAmount = n
	case domain.InputLoanTenure:
		rec.LoanTenureMonths = int(n)
	case domain.InputInterestRate:
		rec.InterestRate = n
	case domain.InputCollateralValue:
		rec.CollateralValue = n
	case domain.InputOutstandingLoan:
		rec.OutstandingLoan = n
	case domain.InputMonthlyEMI:
		rec.MonthlyEMI = n
	case domain.InputNumMissedPayments:
		rec.NumMissedPayments = int(n)
	case domain.InputDaysPastDue:
		rec.DaysPastDue = int(n)
	case domain.InputCollectionAttempts:
		rec.CollectionAttempts = int(n)
	}
}
