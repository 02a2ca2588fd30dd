package domain

type InputKind int

const (
	KindText InputKind = iota
	KindInt
	KindFloat
	KindChoice
)

// InputField describes one widget of the borrower form.
type InputField struct {
	Name    string
	Label   string
	Kind    InputKind
	Default string
	Min     *float64
	Max     *float64
	Step    string
	Options []string
}

func bound(v float64) *float64 { return &v }

const (
	InputBorrowerID         = "borrower_id"
	InputAge                = "age"
	InputGender             = "gender"
	InputEmploymentType     = "employment_type"
	InputMonthlyIncome      = "monthly_income"
	InputNumDependents      = "num_dependents"
	InputLoanAmount         = "loan_amount"
	InputLoanTenure         = "loan_tenure"
	InputInterestRate       = "interest_rate"
	InputLoanType           = "loan_type"
	InputCollateralValue    = "collateral_value"
	InputOutstandingLoan    = "outstanding_loan"
	InputMonthlyEMI         = "monthly_emi"
	InputNumMissedPayments  = "num_missed_payments"
	InputDaysPastDue        = "days_past_due"
	InputCollectionAttempts = "collection_attempts"
	InputCollectionMethod   = "collection_method"
	InputLegalActionTaken   = "legal_action_taken"
)

var (
	GenderOptions           = []string{"Male", "Female"}
	EmploymentTypeOptions   = []string{"Salaried", "Self-employed", "Unemployed"}
	LoanTypeOptions         = []string{"Home", "Auto", "Personal", "Business"}
	CollectionMethodOptions = []string{"Settlement Offer", "Legal Notice", "Calls", "Debt Collectors"}
	LegalActionOptions      = []string{"Yes", "No"}
)

// BorrowerForm is the ordered widget list shown to the user. Choice
// defaults are the first option.
var BorrowerForm = []InputField{
	{Name: InputBorrowerID, Label: "Borrower ID (Optional - for your reference)", Kind: KindText},
	{Name: InputAge, Label: "Age", Kind: KindInt, Default: "30", Min: bound(18), Max: bound(100)},
	{Name: InputGender, Label: "Gender", Kind: KindChoice, Default: "Male", Options: GenderOptions},
	{Name: InputEmploymentType, Label: "Employment Type", Kind: KindChoice, Default: "Salaried", Options: EmploymentTypeOptions},
	{Name: InputMonthlyIncome, Label: "Monthly Income", Kind: KindInt, Default: "30000", Min: bound(0)},
	{Name: InputNumDependents, Label: "Number of Dependents", Kind: KindInt, Default: "0", Min: bound(0)},
	{Name: InputLoanAmount, Label: "Loan Amount", Kind: KindInt, Default: "50000", Min: bound(1000)},
	{Name: InputLoanTenure, Label: "Loan Tenure (Months)", Kind: KindInt, Default: "24", Min: bound(1)},
	{Name: InputInterestRate, Label: "Interest Rate (%)", Kind: KindFloat, Default: "10.0", Min: bound(0), Step: "0.1"},
	{Name: InputLoanType, Label: "Loan Type", Kind: KindChoice, Default: "Home", Options: LoanTypeOptions},
	{Name: InputCollateralValue, Label: "Collateral Value", Kind: KindInt, Default: "20000", Min: bound(0)},
	{Name: InputOutstandingLoan, Label: "Outstanding Loan Amount", Kind: KindInt, Default: "25000", Min: bound(0)},
	{Name: InputMonthlyEMI, Label: "Monthly EMI", Kind: KindInt, Default: "2500", Min: bound(0)},
	{Name: InputNumMissedPayments, Label: "Number of Missed Payments", Kind: KindInt, Default: "0", Min: bound(0)},
	{Name: InputDaysPastDue, Label: "Days Past Due", Kind: KindInt, Default: "0", Min: bound(0)},
	{Name: InputCollectionAttempts, Label: "Number of Collection Attempts", Kind: KindInt, Default: "0", Min: bound(0)},
	{Name: InputCollectionMethod, Label: "Collection Method", Kind: KindChoice, Default: "Settlement Offer", Options: CollectionMethodOptions},
	{Name: InputLegalActionTaken, Label: "Legal Action Taken", Kind: KindChoice, Default: "Yes", Options: LegalActionOptions},
}

// DefaultBorrowerRecord is the record a freshly rendered form submits.
func DefaultBorrowerRecord() BorrowerRecord {
	return BorrowerRecord{
		Age:                30,
		Gender:             "Male",
		EmploymentType:     "Salaried",
		MonthlyIncome:      30000,
		NumDependents:      0,
		LoanAmount:         50000,
		LoanTenureMonths:   24,
		InterestRate:       10.0,
		LoanType:           "Home",
		CollateralValue:    20000,
		OutstandingLoan:    25000,
		MonthlyEMI:         2500,
		NumMissedPayments:  0,
		DaysPastDue:        0,
		CollectionAttempts: 0,
		CollectionMethod:   "Settlement Offer",
		LegalActionTaken:   "Yes",
	}
}
