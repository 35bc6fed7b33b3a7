package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"profilecli/internal/client/api"
	"profilecli/internal/client/form"
	"profilecli/internal/client/models"
	"profilecli/internal/client/profile"
	"profilecli/internal/common"
	"profilecli/internal/filex"
)

// Signup walks the user through the signup form field by field, running the
// same per-field checks the form applies on every change, then submits.
// Local validation failures never produce a request; server failures keep
// the entered values so the user can retry.
func (a *App) Signup(ctx context.Context) error {
	f := form.New()

	simple := []struct{ field, prompt string }{
		{form.FieldFirstName, "First name"},
		{form.FieldLastName, "Last name"},
		{form.FieldDateOfBirth, "Date of birth (YYYY-MM-DD)"},
		{form.FieldCountry, "Country"},
		{form.FieldState, "State"},
		{form.FieldAddress, "Address"},
	}
	for _, s := range simple {
		v, err := getSimpleText(a.reader, s.prompt, os.Stdout)
		if err != nil {
			return err
		}
		if err := f.SetField(s.field, v); err != nil {
			return err
		}
	}

	if err := a.promptValidated(f, form.FieldEmail, "Email"); err != nil {
		return err
	}
	if err := a.promptPhone(f); err != nil {
		return err
	}

	gender, err := GetChoice(a.reader, "Gender", models.Genders, os.Stdout)
	if err != nil {
		return err
	}
	if err := f.SetField(form.FieldGender, gender); err != nil {
		return err
	}

	if err := a.promptEducation(f); err != nil {
		return err
	}
	if err := a.promptPasswords(f); err != nil {
		return err
	}
	if err := a.promptAttachments(f); err != nil {
		return err
	}

	if err := f.BeginSubmit(); err != nil {
		fmt.Println(f.Message())
		return err
	}

	req := &api.SignupRequest{
		Profile:        f.Profile(),
		Password:       f.Password(),
		ProfilePicture: f.Picture(),
		CV:             f.CV(),
	}
	if _, err := a.session.Signup(ctx, req); err != nil {
		f.SubmitFailed(err.Error())
		fmt.Println(err.Error())
		return err
	}

	f.SubmitSucceeded()
	fmt.Println("Signup successful! Redirecting to login...")
	return nil
}

// promptValidated re-prompts a field until its per-field check passes.
func (a *App) promptValidated(f *form.Form, field, prompt string) error {
	for {
		v, err := getSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			return err
		}
		if err := f.SetField(field, v); err != nil {
			return err
		}
		msg := f.FieldError(field)
		if msg == "" {
			return nil
		}
		fmt.Println(msg)
	}
}

// promptPhone reads number and country code and applies the strict
// digit-length gate.
func (a *App) promptPhone(f *form.Form) error {
	for {
		number, err := getSimpleText(a.reader, "Phone number (with country prefix)", os.Stdout)
		if err != nil {
			return err
		}
		cc, err := getSimpleText(a.reader, "Country code (e.g. us)", os.Stdout)
		if err != nil {
			return err
		}
		if err := f.SetPhone(number, cc); err != nil {
			return err
		}
		msg := f.FieldError(form.FieldPhoneNumber)
		if msg == "" {
			return nil
		}
		fmt.Println(msg)
	}
}

func (a *App) promptEducation(f *form.Form) error {
	degree, err := GetChoice(a.reader, "Degree", models.Degrees, os.Stdout)
	if err != nil {
		return err
	}
	if err := f.SetEducationField(form.FieldDegree, degree); err != nil {
		return err
	}

	for _, s := range []struct{ field, prompt string }{
		{form.FieldInstitution, "Institution"},
		{form.FieldStartYear, "Start year"},
	} {
		v, err := getSimpleText(a.reader, s.prompt, os.Stdout)
		if err != nil {
			return err
		}
		if err := f.SetEducationField(s.field, v); err != nil {
			return err
		}
	}

	ongoing, err := GetChoice(a.reader, "Currently studying here?", []string{"yes", "no"}, os.Stdout)
	if err != nil {
		return err
	}
	if err := f.SetOngoing(ongoing == "yes"); err != nil {
		return err
	}
	if ongoing == "yes" {
		return nil
	}

	for _, s := range []struct{ field, prompt string }{
		{"endDate", "End date (YYYY-MM-DD)"},
		{form.FieldGraduationYear, "Graduation year"},
	} {
		v, err := getSimpleText(a.reader, s.prompt, os.Stdout)
		if err != nil {
			return err
		}
		if err := f.SetEducationField(s.field, v); err != nil {
			return err
		}
	}
	return nil
}

// promptPasswords reads the password pair until the strength check and the
// confirmation both pass. The raw byte slices are wiped after use.
func (a *App) promptPasswords(f *form.Form) error {
	for {
		pw, err := getPassword("Enter password", os.Stdout)
		if err != nil {
			return err
		}
		if err := f.SetField(form.FieldPassword, string(pw)); err != nil {
			common.WipeByteArray(pw)
			return err
		}
		common.WipeByteArray(pw)

		if msg := f.FieldError(form.FieldPassword); msg != "" {
			fmt.Println(msg)
			continue
		}

		confirm, err := getPassword("Confirm password", os.Stdout)
		if err != nil {
			return err
		}
		if err := f.SetField(form.FieldConfirmPassword, string(confirm)); err != nil {
			common.WipeByteArray(confirm)
			return err
		}
		common.WipeByteArray(confirm)

		if msg := f.FieldError(form.FieldConfirmPassword); msg != "" {
			fmt.Println(msg)
			continue
		}
		return nil
	}
}

// promptAttachments collects the optional profile picture and CV. A file
// over its size cap is reported and skipped; signup proceeds without it.
func (a *App) promptAttachments(f *form.Form) error {
	path, err := getSimpleText(a.reader, "Profile picture path (empty to skip)", os.Stdout)
	if err != nil {
		return err
	}
	if path != "" {
		if att, err := loadFile(path, models.MaxProfilePictureBytes, profile.MsgPictureTooLarge); err == nil {
			f.AttachPicture(att)
		}
	}

	path, err = getSimpleText(a.reader, "CV path (empty to skip)", os.Stdout)
	if err != nil {
		return err
	}
	if path != "" {
		if att, err := loadFile(path, models.MaxCVBytes, profile.MsgCVTooLarge); err == nil {
			f.AttachCV(att)
		}
	}
	return nil
}

func loadFile(path string, maxSize int64, tooLargeMsg string) (*filex.Attachment, error) {
	att, err := filex.LoadAttachment(path, maxSize)
	if err != nil {
		if errors.Is(err, filex.ErrTooLarge) {
			fmt.Println(tooLargeMsg)
		} else {
			fmt.Println(err.Error())
		}
		return nil, err
	}
	return att, nil
}
