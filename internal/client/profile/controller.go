// Package profile implements the profile view/edit flow: the cached
// snapshot, the edit draft, the save gate, and the two file replacement
// flows for the avatar and the CV document.
package profile

import (
	"context"
	"errors"
	"fmt"

	"profilecli/internal/client/api"
	"profilecli/internal/client/form"
	"profilecli/internal/client/models"
	"profilecli/internal/client/session"
	"profilecli/internal/client/validation"
	"profilecli/internal/filex"
	"profilecli/internal/logging"
)

// User-facing messages for the edit and upload flows.
const (
	MsgProfileUpdated  = "Profile updated successfully!"
	MsgPictureUpdated  = "Profile picture updated successfully!"
	MsgCVUpdated       = "CV updated successfully!"
	MsgServerError     = "Server error. Please try again."
	MsgPictureTooLarge = "Profile picture must be less than 5MB"
	MsgCVTooLarge      = "CV must be less than 10MB"
)

// ErrBusy is returned when an operation arrives while the same flow is
// already in flight.
var ErrBusy = errors.New("operation already in progress")

// ErrNotEditing is returned for draft mutations outside an edit session.
var ErrNotEditing = errors.New("not in edit mode")

// ErrEmailImmutable rejects attempts to change the account email.
var ErrEmailImmutable = errors.New("email cannot be changed")

// SessionAPI is the slice of the session manager the controller needs.
type SessionAPI interface {
	FetchProfile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, u *models.UserProfile) error
	UpdateAvatar(ctx context.Context, file *filex.Attachment) (string, *models.UserProfile, error)
	UpdateCV(ctx context.Context, file *filex.Attachment) (string, *models.UserProfile, error)
}

// loadAttachment is a seam for tests.
var loadAttachment = filex.LoadAttachment

// Controller owns the profile screen state. The snapshot is the last
// server-confirmed record; the draft exists only between BeginEdit and
// Save/Cancel and never leaks partial edits into the snapshot. Each of the
// three mutating flows (save, avatar, CV) carries its own in-flight latch.
type Controller struct {
	session SessionAPI
	log     logging.Logger

	snapshot *models.UserProfile
	draft    *models.UserProfile
	editing  bool

	// message is the single status slot of the screen, shared by success
	// and failure texts, last-write-wins.
	message string

	saving          bool
	uploadingAvatar bool
	uploadingCV     bool
}

func NewController(sess SessionAPI, log logging.Logger) *Controller {
	return &Controller{
		session: sess,
		log:     log.With("component", "profile"),
	}
}

func (c *Controller) Editing() bool   { return c.editing }
func (c *Controller) Message() string { return c.message }

// Snapshot returns the last server-confirmed profile, or nil before Load.
func (c *Controller) Snapshot() *models.UserProfile { return c.snapshot }

// Draft returns the record under edit, or the snapshot outside edit mode.
func (c *Controller) Draft() *models.UserProfile {
	if c.editing {
		return c.draft
	}
	return c.snapshot
}

// Load fetches the authenticated profile and resets the screen around it.
// Any in-progress edit is discarded.
func (c *Controller) Load(ctx context.Context) error {
	u, err := c.session.FetchProfile(ctx)
	if err != nil {
		return err
	}
	c.snapshot = u
	c.draft = nil
	c.editing = false
	c.message = ""
	return nil
}

// BeginEdit opens an edit session over a copy of the snapshot.
func (c *Controller) BeginEdit() error {
	if c.snapshot == nil {
		return errors.New("no profile loaded")
	}
	if c.saving {
		return ErrBusy
	}
	c.draft = c.snapshot.Clone()
	c.editing = true
	c.message = ""
	return nil
}

// SetField updates one draft field. The email is the account identity and
// is rejected; there is no path that changes it after signup.
func (c *Controller) SetField(field, value string) error {
	if err := c.draftMutable(); err != nil {
		return err
	}

	switch field {
	case form.FieldFirstName:
		c.draft.FirstName = value
	case form.FieldLastName:
		c.draft.LastName = value
	case form.FieldEmail:
		return ErrEmailImmutable
	case form.FieldPhoneNumber:
		c.draft.PhoneNumber = value
	case form.FieldGender:
		c.draft.Gender = value
	case form.FieldDateOfBirth:
		c.draft.DateOfBirth = value
	case form.FieldCountry:
		c.draft.Country = value
	case form.FieldState:
		c.draft.State = value
	case form.FieldAddress:
		c.draft.Address = value
	default:
		return fmt.Errorf("%s: %q", form.MsgUnknownField, field)
	}
	return nil
}

// SetEducationField updates one field of the draft's education record.
func (c *Controller) SetEducationField(field, value string) error {
	if err := c.draftMutable(); err != nil {
		return err
	}

	switch field {
	case form.FieldDegree:
		c.draft.Education.Degree = value
	case form.FieldInstitution:
		c.draft.Education.Institution = value
	case form.FieldStartYear:
		c.draft.Education.StartYear = value
	case "endDate":
		c.draft.Education.EndDate = value
	case form.FieldGraduationYear:
		c.draft.Education.GraduationYear = value
	default:
		return fmt.Errorf("%s: %q", form.MsgUnknownField, field)
	}
	return nil
}

// SetOngoing toggles the education ongoing flag, keeping any entered
// end date.
func (c *Controller) SetOngoing(ongoing bool) error {
	if err := c.draftMutable(); err != nil {
		return err
	}
	c.draft.Education.IsOngoing = ongoing
	return nil
}

// SetPhone applies a phone change together with its detected country code.
func (c *Controller) SetPhone(number, countryCode string) error {
	if err := c.draftMutable(); err != nil {
		return err
	}
	c.draft.PhoneNumber = number
	c.draft.CountryCode = countryCode
	return nil
}

// Cancel discards the draft and any status message; the snapshot is shown
// unchanged.
func (c *Controller) Cancel() {
	if c.saving {
		return
	}
	c.draft = nil
	c.editing = false
	c.message = ""
}

// Save validates and submits the edited record. The strict phone gate
// runs locally first: on rejection no request is sent and the edit session
// stays open. On success the draft becomes the new snapshot and edit mode
// closes. Server rejections keep the draft so the user can retry.
func (c *Controller) Save(ctx context.Context) error {
	if !c.editing || c.draft == nil {
		return ErrNotEditing
	}
	if c.saving {
		return ErrBusy
	}

	if !validation.ValidPhoneLength(c.draft.PhoneNumber) {
		c.message = form.MsgInvalidPhone
		return errors.New(form.MsgInvalidPhone)
	}

	c.saving = true
	defer func() { c.saving = false }()

	if err := c.session.UpdateProfile(ctx, c.draft); err != nil {
		c.message = saveErrorMessage(err)
		c.log.Warn(ctx, "profile save failed", "err", err)
		return err
	}

	c.snapshot = c.draft
	c.draft = nil
	c.editing = false
	c.message = MsgProfileUpdated
	return nil
}

// saveErrorMessage picks the display text for a failed save: the server's
// own words when it sent any, a generic text otherwise.
func saveErrorMessage(err error) string {
	var se *api.ServerError
	if errors.As(err, &se) {
		return se.Message
	}
	return MsgServerError
}

// ChangeAvatar loads the picture at path, enforces the size cap locally,
// uploads it, and replaces the whole snapshot with the re-fetched profile.
// An open edit draft is left untouched.
func (c *Controller) ChangeAvatar(ctx context.Context, path string) error {
	if c.uploadingAvatar {
		return ErrBusy
	}
	c.uploadingAvatar = true
	defer func() { c.uploadingAvatar = false }()

	return c.replaceFile(ctx, path, models.MaxProfilePictureBytes,
		MsgPictureTooLarge, MsgPictureUpdated, c.session.UpdateAvatar)
}

// ChangeCV mirrors ChangeAvatar for the CV document.
func (c *Controller) ChangeCV(ctx context.Context, path string) error {
	if c.uploadingCV {
		return ErrBusy
	}
	c.uploadingCV = true
	defer func() { c.uploadingCV = false }()

	return c.replaceFile(ctx, path, models.MaxCVBytes,
		MsgCVTooLarge, MsgCVUpdated, c.session.UpdateCV)
}

func (c *Controller) replaceFile(
	ctx context.Context,
	path string,
	maxSize int64,
	tooLargeMsg, successMsg string,
	upload func(ctx context.Context, file *filex.Attachment) (string, *models.UserProfile, error),
) error {
	a, err := loadAttachment(path, maxSize)
	if err != nil {
		if errors.Is(err, filex.ErrTooLarge) {
			c.message = tooLargeMsg
		}
		return err
	}

	_, refreshed, err := upload(ctx, a)
	if err != nil {
		c.message = saveErrorMessage(err)
		c.log.Warn(ctx, "file upload failed", "err", err)
		return err
	}

	c.snapshot = refreshed
	c.message = successMsg
	return nil
}

// draftMutable gates draft mutations: an edit session must be open and no
// save may be in flight.
func (c *Controller) draftMutable() error {
	if c.saving {
		return ErrBusy
	}
	if !c.editing || c.draft == nil {
		return ErrNotEditing
	}
	return nil
}

var _ SessionAPI = (*session.Manager)(nil)
