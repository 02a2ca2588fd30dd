package domain

const (
	NumNumericFeatures     = 12
	NumCategoricalFeatures = 5
	NumFeatures            = NumNumericFeatures + NumCategoricalFeatures
)

// FeatureVector is the classifier input. The order must match the order
// the model was trained with, see FeatureNames.
type FeatureVector [NumFeatures]float64

// Field identifies an encoder in the fitted encoder set.
type Field string

const (
	FieldGender           Field = "Gender"
	FieldEmploymentType   Field = "Employment_Type"
	FieldLoanType         Field = "Loan_Type"
	FieldCollectionMethod Field = "Collection_Method"
	FieldLegalActionTaken Field = "Legal_Action_Taken"
	FieldRecoveryStatus   Field = "Recovery_Status"
)

// CategoricalFields lists the input encoders in feature order.
var CategoricalFields = [NumCategoricalFeatures]Field{
	FieldGender,
	FieldEmploymentType,
	FieldLoanType,
	FieldCollectionMethod,
	FieldLegalActionTaken,
}

// EncoderFields is the closed set of encoder identifiers an encoder
// artifact must provide.
var EncoderFields = []Field{
	FieldGender,
	FieldEmploymentType,
	FieldLoanType,
	FieldCollectionMethod,
	FieldLegalActionTaken,
	FieldRecoveryStatus,
}

// IsEncoderField reports whether f belongs to EncoderFields.
func IsEncoderField(f Field) bool {
	for _, known := range EncoderFields {
		if known == f {
			return true
		}
	}
	return false
}

// FeatureNames is the training-time column order of the feature vector.
var FeatureNames = [NumFeatures]string{
	"Age",
	"Monthly_Income",
	"Num_Dependents",
	"Loan_Amount",
	"Loan_Tenure",
	"Interest_Rate",
	"Collateral_Value",
	"Outstanding_Loan_Amount",
	"Monthly_EMI",
	"Num_Missed_Payments",
	"Days_Past_Due",
	"Collection_Attempts",
	string(FieldGender),
	string(FieldEmploymentType),
	string(FieldLoanType),
	string(FieldCollectionMethod),
	string(FieldLegalActionTaken),
}
