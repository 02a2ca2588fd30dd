package domain

// BorrowerRecord holds every attribute the classifier was trained on.
// BorrowerID is display-only and never reaches feature assembly.
type BorrowerRecord struct {
	BorrowerID string

	Age                int
	Gender             string
	EmploymentType     string
	MonthlyIncome      float64
	NumDependents      int
	LoanAmount         float64
	LoanTenureMonths   int
	InterestRate       float64
	LoanType           string
	CollateralValue    float64
	OutstandingLoan    float64
	MonthlyEMI         float64
	NumMissedPayments  int
	DaysPastDue        int
	CollectionAttempts int
	CollectionMethod   string
	LegalActionTaken   string
}

// Categorical returns the raw value of a categorical input field.
func (b BorrowerRecord) Categorical(f Field) (string, bool) {
	switch f {
	case FieldGender:
		return b.Gender, true
	case FieldEmploymentType:
		return b.EmploymentType, true
	case FieldLoanType:
		return b.LoanType, true
	case FieldCollectionMethod:
		return b.CollectionMethod, true
	case FieldLegalActionTaken:
		return b.LegalActionTaken, true
	}
	return "", false
}

// Numeric returns the twelve numeric features in training order.
func (b BorrowerRecord) Numeric() [NumNumericFeatures]float64 {
	return [NumNumericFeatures]float64{
		float64(b.Age),
		b.MonthlyIncome,
		float64(b.NumDependents),
		b.LoanAmount,
		float64(b.LoanTenureMonths),
		b.InterestRate,
		b.CollateralValue,
		b.OutstandingLoan,
		b.MonthlyEMI,
		float64(b.NumMissedPayments),
		float64(b.DaysPastDue),
		float64(b.CollectionAttempts),
	}
}

type PredictionResult struct {
	RequestID  string
	BorrowerID string
	Status     string
	ClassCode  int
	Cached     bool
}
