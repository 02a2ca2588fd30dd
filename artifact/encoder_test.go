package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-recovery/domain"
)

func fittedEncoders(t *testing.T) *EncoderSet {
	t.Helper()
	set, err := NewEncoderSet(map[string][]string{
		"Gender":             {"Male", "Female"},
		"Employment_Type":    {"Unemployed", "Salaried", "Self-employed"},
		"Loan_Type":          {"Home", "Auto", "Personal", "Business"},
		"Collection_Method":  {"Settlement Offer", "Legal Notice", "Calls", "Debt Collectors"},
		"Legal_Action_Taken": {"Yes", "No"},
		"Recovery_Status":    {"Written Off", "Fully Recovered", "Partially Recovered"},
	})
	require.NoError(t, err)
	return set
}

func TestLabelEncoder_SortsClasses(t *testing.T) {
	enc, err := NewLabelEncoder([]string{"Home", "Auto", "Personal", "Business"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Auto", "Business", "Home", "Personal"}, enc.Classes())

	code, err := enc.Transform("Home")
	require.NoError(t, err)
	assert.Equal(t, 2, code)

	label, err := enc.InverseTransform(3)
	require.NoError(t, err)
	assert.Equal(t, "Personal", label)
}

func TestLabelEncoder_Unseen(t *testing.T) {
	enc, err := NewLabelEncoder([]string{"Male", "Female"})
	require.NoError(t, err)

	_, err = enc.Transform("Other")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = enc.InverseTransform(2)
	assert.ErrorIs(t, err, ErrUnknownCode)
	_, err = enc.InverseTransform(-1)
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestLabelEncoder_RejectsDuplicatesAndEmpty(t *testing.T) {
	_, err := NewLabelEncoder([]string{"Yes", "Yes"})
	assert.Error(t, err)

	_, err = NewLabelEncoder(nil)
	assert.Error(t, err)
}

func TestEncoderSet_AllFormChoicesEncode(t *testing.T) {
	set := fittedEncoders(t)

	choices := map[domain.Field][]string{
		domain.FieldGender:           domain.GenderOptions,
		domain.FieldEmploymentType:   domain.EmploymentTypeOptions,
		domain.FieldLoanType:         domain.LoanTypeOptions,
		domain.FieldCollectionMethod: domain.CollectionMethodOptions,
		domain.FieldLegalActionTaken: domain.LegalActionOptions,
	}

	for field, options := range choices {
		for _, opt := range options {
			code, err := set.Encode(field, opt)
			require.NoError(t, err, "%s=%s", field, opt)
			assert.Equal(t, opt, set.Vocabulary(field)[code])
		}
	}
}

func TestEncoderSet_Decode(t *testing.T) {
	set := fittedEncoders(t)

	status, err := set.Decode(0)
	require.NoError(t, err)
	assert.Equal(t, "Fully Recovered", status)
}

func TestEncoderSet_UnknownField(t *testing.T) {
	_, err := NewEncoderSet(map[string][]string{
		"Gender": {"Male"},
		"Region": {"North"},
	})
	assert.ErrorIs(t, err, ErrUnexpectedField)
}

func TestEncoderSet_MissingField(t *testing.T) {
	_, err := NewEncoderSet(map[string][]string{
		"Gender": {"Male", "Female"},
	})
	assert.ErrorIs(t, err, ErrMissingEncoder)
}
