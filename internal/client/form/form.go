// Package form implements the signup form state machine: draft values,
// per-field error tracking, the submit gate, and serialization into the
// request payload. All state is owned by the calling goroutine; network
// submission itself is the caller's job.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"profilecli/internal/client/models"
	"profilecli/internal/client/validation"
	"profilecli/internal/filex"
)

// State of the form lifecycle.
type State string

const (
	StateEmpty      State = "empty"
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Field names, matching the wire names of the signup endpoint.
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPhoneNumber     = "phoneNumber"
	FieldGender          = "gender"
	FieldDateOfBirth     = "dob"
	FieldCountry         = "country"
	FieldState           = "state"
	FieldAddress         = "address"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"

	FieldDegree         = "degree"
	FieldInstitution    = "institution"
	FieldStartYear      = "startYear"
	FieldGraduationYear = "graduationYear"
)

// User-facing messages. Kept identical between the per-field and the
// aggregate checks so the two never disagree.
const (
	MsgInvalidEmail     = "Please enter a valid email"
	MsgInvalidPhone     = "Enter a valid phone number"
	MsgPasswordMismatch = "Passwords do not match!"
	MsgPasswordCriteria = "Password does not meet the required criteria!"
	MsgUnknownField     = "unknown field"
)

// ErrSubmitting is returned when a mutation or submit arrives while a
// submission is already in flight.
var ErrSubmitting = errors.New("submission in progress")

// FieldErrorSet maps a field name to its current error message. A field
// absent from the set has no error.
type FieldErrorSet map[string]string

// EducationDraft mirrors models.Education with validation tags. EndDate is
// required only while the education is not ongoing; toggling IsOngoing never
// clears an already entered EndDate.
type EducationDraft struct {
	Degree         string `validate:"required"`
	Institution    string `validate:"required"`
	StartYear      string `validate:"required"`
	IsOngoing      bool
	EndDate        string `validate:"required_if=IsOngoing false"`
	GraduationYear string
}

// Draft holds the raw signup input. Tags drive the required-field gate;
// format checks live in the validation package.
type Draft struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required"`
	PhoneNumber     string `validate:"required"`
	CountryCode     string
	Gender          string `validate:"required,oneof=Male Female Other"`
	DateOfBirth     string `validate:"required"`
	Country         string `validate:"required"`
	State           string `validate:"required"`
	Address         string `validate:"required"`
	Education       EducationDraft
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

// Form is the signup form state machine.
type Form struct {
	state       State
	draft       Draft
	touched     map[string]bool
	fieldErrors FieldErrorSet

	// message is the single top-level slot shared by local validation
	// errors and server-reported errors, last-write-wins.
	message string

	picture *filex.Attachment
	cv      *filex.Attachment

	validate *validator.Validate
}

// New returns an empty form.
func New() *Form {
	return &Form{
		state:       StateEmpty,
		touched:     make(map[string]bool),
		fieldErrors: make(FieldErrorSet),
		validate:    validator.New(),
	}
}

func (f *Form) State() State              { return f.state }
func (f *Form) Draft() Draft              { return f.draft }
func (f *Form) Message() string           { return f.message }
func (f *Form) Touched(field string) bool { return f.touched[field] }

// FieldError returns the current error for field, or "" when there is none.
func (f *Form) FieldError(field string) string { return f.fieldErrors[field] }

// FieldErrors returns a copy of the current error set.
func (f *Form) FieldErrors() FieldErrorSet {
	out := make(FieldErrorSet, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

func (f *Form) setFieldError(field, msg string) {
	if msg == "" {
		delete(f.fieldErrors, field)
		return
	}
	f.fieldErrors[field] = msg
}

// beginEdit moves the machine into Editing from any non-submitting state.
func (f *Form) beginEdit() error {
	if f.state == StateSubmitting {
		return ErrSubmitting
	}
	f.state = StateEditing
	return nil
}

// SetField updates one draft value, marks the field touched, and re-runs the
// checks for that field plus any field whose validity depends on it.
func (f *Form) SetField(field, value string) error {
	if err := f.beginEdit(); err != nil {
		return err
	}

	switch field {
	case FieldFirstName:
		f.draft.FirstName = value
	case FieldLastName:
		f.draft.LastName = value
	case FieldEmail:
		f.draft.Email = value
		if !validation.ValidEmail(value) {
			f.setFieldError(FieldEmail, MsgInvalidEmail)
		} else {
			f.setFieldError(FieldEmail, "")
		}
	case FieldPhoneNumber:
		f.draft.PhoneNumber = value
		if value == "" || !validation.ValidPhoneShape(value) {
			f.setFieldError(FieldPhoneNumber, MsgInvalidPhone)
		} else {
			f.setFieldError(FieldPhoneNumber, "")
		}
	case FieldGender:
		f.draft.Gender = value
	case FieldDateOfBirth:
		f.draft.DateOfBirth = value
	case FieldCountry:
		f.draft.Country = value
	case FieldState:
		f.draft.State = value
	case FieldAddress:
		f.draft.Address = value
	case FieldPassword:
		f.draft.Password = value
		if ok, reason := validation.CheckPassword(value); !ok {
			f.setFieldError(FieldPassword, reason)
		} else {
			f.setFieldError(FieldPassword, "")
		}
		f.recheckConfirm()
	case FieldConfirmPassword:
		f.draft.ConfirmPassword = value
		f.recheckConfirm()
	default:
		return fmt.Errorf("%s: %q", MsgUnknownField, field)
	}

	f.touched[field] = true
	return nil
}

// recheckConfirm re-evaluates password confirmation whenever either side
// changes, independent of the strength check.
func (f *Form) recheckConfirm() {
	if validation.PasswordsMatch(f.draft.Password, f.draft.ConfirmPassword) {
		f.setFieldError(FieldConfirmPassword, "")
	} else {
		f.setFieldError(FieldConfirmPassword, MsgPasswordMismatch)
	}
}

// SetEducationField updates one field of the nested education record.
func (f *Form) SetEducationField(field, value string) error {
	if err := f.beginEdit(); err != nil {
		return err
	}

	switch field {
	case FieldDegree:
		f.draft.Education.Degree = value
	case FieldInstitution:
		f.draft.Education.Institution = value
	case FieldStartYear:
		f.draft.Education.StartYear = value
	case "endDate":
		f.draft.Education.EndDate = value
	case FieldGraduationYear:
		f.draft.Education.GraduationYear = value
	default:
		return fmt.Errorf("%s: %q", MsgUnknownField, field)
	}

	f.touched["education."+field] = true
	return nil
}

// SetOngoing toggles the ongoing flag. A previously entered end date is
// kept; only the requirement changes.
func (f *Form) SetOngoing(ongoing bool) error {
	if err := f.beginEdit(); err != nil {
		return err
	}
	f.draft.Education.IsOngoing = ongoing
	return nil
}

// SetPhone applies a phone-widget change: number plus detected country code,
// validated with the strict digit-length gate.
func (f *Form) SetPhone(number, countryCode string) error {
	if err := f.beginEdit(); err != nil {
		return err
	}
	f.draft.PhoneNumber = number
	f.draft.CountryCode = countryCode
	if !validation.ValidPhoneLength(number) {
		f.setFieldError(FieldPhoneNumber, MsgInvalidPhone)
	} else {
		f.setFieldError(FieldPhoneNumber, "")
	}
	f.touched[FieldPhoneNumber] = true
	return nil
}

// ClearField resets a field to empty and removes its error, the
// clear-button behavior.
func (f *Form) ClearField(field string) error {
	if f.state == StateSubmitting {
		return ErrSubmitting
	}
	switch field {
	case FieldEmail:
		f.draft.Email = ""
	case FieldPhoneNumber:
		f.draft.PhoneNumber = ""
	default:
		return fmt.Errorf("%s: %q", MsgUnknownField, field)
	}
	f.setFieldError(field, "")
	return nil
}

// AttachPicture sets the profile picture to upload with the signup request.
func (f *Form) AttachPicture(a *filex.Attachment) { f.picture = a }

// AttachCV sets the CV document to upload with the signup request.
func (f *Form) AttachCV(a *filex.Attachment) { f.cv = a }

// Validate runs the full pre-submission gate and returns the first failing
// aggregate message, mirroring the submit-time check order: password policy,
// confirmation, email shape, strict phone length, then required fields.
func (f *Form) Validate() error {
	if ok, _ := validation.CheckPassword(f.draft.Password); !ok {
		return errors.New(MsgPasswordCriteria)
	}
	if !validation.PasswordsMatch(f.draft.Password, f.draft.ConfirmPassword) {
		return errors.New(MsgPasswordMismatch)
	}
	if !validation.ValidEmail(f.draft.Email) {
		return errors.New(MsgInvalidEmail)
	}
	if !validation.ValidPhoneLength(f.draft.PhoneNumber) {
		return errors.New(MsgInvalidPhone)
	}
	if err := f.validate.Struct(f.draft); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, requiredError(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// requiredError converts one validator error into a display message.
func requiredError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// BeginSubmit validates the draft and, when everything passes, moves the
// machine to Submitting. On local rejection no request must be sent: the
// message slot gets the aggregate error and the state stays Editing.
func (f *Form) BeginSubmit() error {
	switch f.state {
	case StateEditing, StateFailed:
		// submit accepted
	case StateSubmitting:
		return ErrSubmitting
	default:
		return fmt.Errorf("cannot submit from state %q", f.state)
	}

	if err := f.Validate(); err != nil {
		f.message = err.Error()
		f.state = StateEditing
		return err
	}

	f.message = ""
	f.state = StateSubmitting
	return nil
}

// SubmitSucceeded records a successful submission and clears the transient
// error message.
func (f *Form) SubmitSucceeded() {
	f.state = StateSucceeded
	f.message = ""
}

// SubmitFailed records a failed submission. Entered values are kept and a
// later resubmission is permitted.
func (f *Form) SubmitFailed(msg string) {
	f.state = StateFailed
	f.message = msg
}

// SetMessage writes the shared top-level message slot.
func (f *Form) SetMessage(msg string) { f.message = msg }

// Profile assembles the draft into the profile record sent to the server.
// ConfirmPassword is intentionally absent from the result.
func (f *Form) Profile() models.UserProfile {
	return models.UserProfile{
		FirstName:   f.draft.FirstName,
		LastName:    f.draft.LastName,
		Email:       f.draft.Email,
		PhoneNumber: f.draft.PhoneNumber,
		CountryCode: f.draft.CountryCode,
		Gender:      f.draft.Gender,
		DateOfBirth: f.draft.DateOfBirth,
		Country:     f.draft.Country,
		State:       f.draft.State,
		Address:     f.draft.Address,
		Education: models.Education{
			Degree:         f.draft.Education.Degree,
			Institution:    f.draft.Education.Institution,
			StartYear:      f.draft.Education.StartYear,
			IsOngoing:      f.draft.Education.IsOngoing,
			EndDate:        f.draft.Education.EndDate,
			GraduationYear: f.draft.Education.GraduationYear,
		},
	}
}

// Password returns the draft password for payload building.
func (f *Form) Password() string { return f.draft.Password }

// Picture returns the attached profile picture, if any.
func (f *Form) Picture() *filex.Attachment { return f.picture }

// CV returns the attached CV document, if any.
func (f *Form) CV() *filex.Attachment { return f.cv }
