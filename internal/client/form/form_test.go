package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profilecli/internal/filex"
)

// fillValid populates every required field with values that pass the gate.
func fillValid(t *testing.T, f *Form) {
	t.Helper()
	require.NoError(t, f.SetField(FieldFirstName, "Ada"))
	require.NoError(t, f.SetField(FieldLastName, "Lovelace"))
	require.NoError(t, f.SetField(FieldEmail, "ada@example.com"))
	require.NoError(t, f.SetPhone("+923001234567", "pk"))
	require.NoError(t, f.SetField(FieldGender, "Female"))
	require.NoError(t, f.SetField(FieldDateOfBirth, "1990-12-10"))
	require.NoError(t, f.SetField(FieldCountry, "Pakistan"))
	require.NoError(t, f.SetField(FieldState, "Punjab"))
	require.NoError(t, f.SetField(FieldAddress, "1 Analytical Engine Rd"))
	require.NoError(t, f.SetEducationField(FieldDegree, "Masters"))
	require.NoError(t, f.SetEducationField(FieldInstitution, "UET"))
	require.NoError(t, f.SetEducationField(FieldStartYear, "2010-09-01"))
	require.NoError(t, f.SetEducationField("endDate", "2014-06-01"))
	require.NoError(t, f.SetField(FieldPassword, "abc123!"))
	require.NoError(t, f.SetField(FieldConfirmPassword, "abc123!"))
}

func TestNew_StartsEmpty(t *testing.T) {
	f := New()
	assert.Equal(t, StateEmpty, f.State())
	assert.Empty(t, f.FieldErrors())
	assert.Empty(t, f.Message())
}

func TestSetField_MovesToEditing(t *testing.T) {
	f := New()
	require.NoError(t, f.SetField(FieldFirstName, "Ada"))
	assert.Equal(t, StateEditing, f.State())
	assert.Equal(t, "Ada", f.Draft().FirstName)
	assert.True(t, f.Touched(FieldFirstName))
}

func TestSetField_UntouchedFieldShowsNoError(t *testing.T) {
	f := New()
	require.NoError(t, f.SetField(FieldFirstName, "Ada"))
	// email was never touched: no error despite being empty/invalid
	assert.Empty(t, f.FieldError(FieldEmail))
}

func TestSetField_EmailValidation(t *testing.T) {
	f := New()

	require.NoError(t, f.SetField(FieldEmail, "a@b"))
	assert.Equal(t, MsgInvalidEmail, f.FieldError(FieldEmail))

	require.NoError(t, f.SetField(FieldEmail, "a@b.co"))
	assert.Empty(t, f.FieldError(FieldEmail))
}

func TestConfirmPassword_ReactiveOnPasswordChange(t *testing.T) {
	f := New()
	require.NoError(t, f.SetField(FieldPassword, "abc123!"))
	require.NoError(t, f.SetField(FieldConfirmPassword, "abc123!"))
	assert.Empty(t, f.FieldError(FieldConfirmPassword))

	// changing password after they were equal re-flags the mismatch
	require.NoError(t, f.SetField(FieldPassword, "xyz456!"))
	assert.Equal(t, MsgPasswordMismatch, f.FieldError(FieldConfirmPassword))

	require.NoError(t, f.SetField(FieldConfirmPassword, "xyz456!"))
	assert.Empty(t, f.FieldError(FieldConfirmPassword))
}

func TestSetPhone_StrictLengthGate(t *testing.T) {
	f := New()

	require.NoError(t, f.SetPhone("12345", "pk"))
	assert.Equal(t, MsgInvalidPhone, f.FieldError(FieldPhoneNumber))

	require.NoError(t, f.SetPhone("+923001234567", "pk"))
	assert.Empty(t, f.FieldError(FieldPhoneNumber))
	assert.Equal(t, "pk", f.Draft().CountryCode)
}

func TestClearField_ResetsValueAndError(t *testing.T) {
	f := New()
	require.NoError(t, f.SetField(FieldEmail, "not-an-email"))
	require.NotEmpty(t, f.FieldError(FieldEmail))

	require.NoError(t, f.ClearField(FieldEmail))
	assert.Empty(t, f.Draft().Email)
	assert.Empty(t, f.FieldError(FieldEmail))
}

func TestBeginSubmit_RejectedFromEmpty(t *testing.T) {
	f := New()
	require.Error(t, f.BeginSubmit())
	assert.Equal(t, StateEmpty, f.State())
}

func TestBeginSubmit_LocalRejectionKeepsEditing(t *testing.T) {
	f := New()
	fillValid(t, f)
	require.NoError(t, f.SetField(FieldPassword, "weak"))

	err := f.BeginSubmit()
	require.Error(t, err)
	assert.Equal(t, MsgPasswordCriteria, err.Error())
	assert.Equal(t, MsgPasswordCriteria, f.Message())
	assert.Equal(t, StateEditing, f.State())
}

func TestBeginSubmit_MismatchRejected(t *testing.T) {
	f := New()
	fillValid(t, f)
	require.NoError(t, f.SetField(FieldConfirmPassword, "other1!"))

	err := f.BeginSubmit()
	require.Error(t, err)
	assert.Equal(t, MsgPasswordMismatch, err.Error())
}

func TestBeginSubmit_MissingRequiredFields(t *testing.T) {
	f := New()
	fillValid(t, f)
	require.NoError(t, f.SetField(FieldAddress, ""))

	err := f.BeginSubmit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is required")
	assert.Equal(t, StateEditing, f.State())
}

func TestBeginSubmit_AcceptedAndLatched(t *testing.T) {
	f := New()
	fillValid(t, f)

	require.NoError(t, f.BeginSubmit())
	assert.Equal(t, StateSubmitting, f.State())

	// no duplicate concurrent submission of the same action
	assert.ErrorIs(t, f.BeginSubmit(), ErrSubmitting)
	assert.ErrorIs(t, f.SetField(FieldFirstName, "x"), ErrSubmitting)
}

func TestSubmitFailed_KeepsValuesAndAllowsResubmit(t *testing.T) {
	f := New()
	fillValid(t, f)
	require.NoError(t, f.BeginSubmit())

	f.SubmitFailed("Email already registered")
	assert.Equal(t, StateFailed, f.State())
	assert.Equal(t, "Email already registered", f.Message())
	assert.Equal(t, "Ada", f.Draft().FirstName)

	require.NoError(t, f.BeginSubmit())
	f.SubmitSucceeded()
	assert.Equal(t, StateSucceeded, f.State())
	assert.Empty(t, f.Message())
}

func TestOngoing_EndDateConditionalRequirement(t *testing.T) {
	f := New()
	fillValid(t, f)
	require.NoError(t, f.SetEducationField("endDate", ""))

	// not ongoing, no end date: rejected
	err := f.BeginSubmit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endDate is required")

	// ongoing: requirement lifted
	require.NoError(t, f.SetOngoing(true))
	require.NoError(t, f.BeginSubmit())
	f.SubmitFailed("x") // reset out of Submitting for the next check

	// toggling back re-requires it
	require.NoError(t, f.SetOngoing(false))
	err = f.BeginSubmit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endDate is required")
}

func TestOngoing_ToggleDoesNotClearEndDate(t *testing.T) {
	f := New()
	require.NoError(t, f.SetEducationField("endDate", "2024-01-01"))
	require.NoError(t, f.SetOngoing(true))
	assert.Equal(t, "2024-01-01", f.Draft().Education.EndDate)
	require.NoError(t, f.SetOngoing(false))
	assert.Equal(t, "2024-01-01", f.Draft().Education.EndDate)
}

func TestProfile_ExcludesConfirmPassword(t *testing.T) {
	f := New()
	fillValid(t, f)

	p := f.Profile()
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, "Masters", p.Education.Degree)
	assert.Equal(t, "2014-06-01", p.Education.EndDate)
	assert.Equal(t, "abc123!", f.Password())
}

func TestAttachments(t *testing.T) {
	f := New()
	pic := &filex.Attachment{Name: "me.png"}
	cv := &filex.Attachment{Name: "cv.pdf"}
	f.AttachPicture(pic)
	f.AttachCV(cv)
	assert.Same(t, pic, f.Picture())
	assert.Same(t, cv, f.CV())
}
