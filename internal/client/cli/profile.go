package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"profilecli/internal/client/models"
	"profilecli/internal/client/preview"
	"profilecli/internal/common"
)

// ensureLoaded fetches the profile on first use. Session problems are
// reported in user terms; the navigator has already switched the route back
// to login when the session was torn down.
func (a *App) ensureLoaded(ctx context.Context) error {
	if a.profile.Snapshot() != nil {
		return nil
	}
	if err := a.profile.Load(ctx); err != nil {
		switch {
		case errors.Is(err, common.ErrNoSession):
			fmt.Println("Please log in first")
		case errors.Is(err, common.ErrSessionInvalid):
			fmt.Println("Session expired. Please log in again.")
		default:
			fmt.Println(err.Error())
		}
		return err
	}
	return nil
}

// Show displays the profile, fetching it on first use. In an edit session
// the draft is shown instead of the snapshot.
func (a *App) Show(ctx context.Context) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	renderProfile(os.Stdout, a.profile.Draft(), a.profile.Editing())
	if msg := a.profile.Message(); msg != "" {
		fmt.Println(msg)
	}
	return nil
}

// Edit opens an edit session over the loaded profile.
func (a *App) Edit(ctx context.Context) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	if err := a.profile.BeginEdit(); err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Println("Editing profile. Use 'set <field> <value>', then 'save' or 'cancel'.")
	return nil
}

// Set changes one draft field.
func (a *App) Set(ctx context.Context, field, value string) error {
	if err := a.profile.SetField(field, value); err != nil {
		fmt.Println(err.Error())
		return err
	}
	return nil
}

// SetEdu changes one education draft field.
func (a *App) SetEdu(ctx context.Context, field, value string) error {
	if err := a.profile.SetEducationField(field, value); err != nil {
		fmt.Println(err.Error())
		return err
	}
	return nil
}

// Phone changes the draft phone number together with its country code.
func (a *App) Phone(ctx context.Context, number, countryCode string) error {
	if err := a.profile.SetPhone(number, countryCode); err != nil {
		fmt.Println(err.Error())
		return err
	}
	return nil
}

// Ongoing toggles the education ongoing flag.
func (a *App) Ongoing(ctx context.Context, value string) error {
	if err := a.profile.SetOngoing(value == "true" || value == "yes"); err != nil {
		fmt.Println(err.Error())
		return err
	}
	return nil
}

// Save submits the edited profile. The controller's status message carries
// both the success and the failure text.
func (a *App) Save(ctx context.Context) error {
	err := a.profile.Save(ctx)
	if msg := a.profile.Message(); msg != "" {
		fmt.Println(msg)
	} else if err != nil {
		fmt.Println(err.Error())
	}
	return err
}

// CancelEdit discards the draft.
func (a *App) CancelEdit(ctx context.Context) error {
	a.profile.Cancel()
	fmt.Println("Edit cancelled")
	return nil
}

// Avatar replaces the profile picture with the file at path.
func (a *App) Avatar(ctx context.Context, path string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	err := a.profile.ChangeAvatar(ctx, path)
	if msg := a.profile.Message(); msg != "" {
		fmt.Println(msg)
	} else if err != nil {
		fmt.Println(err.Error())
	}
	return err
}

// CV replaces the CV document with the file at path.
func (a *App) CV(ctx context.Context, path string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	err := a.profile.ChangeCV(ctx, path)
	if msg := a.profile.Message(); msg != "" {
		fmt.Println(msg)
	} else if err != nil {
		fmt.Println(err.Error())
	}
	return err
}

// Preview shows how the uploaded CV would be displayed.
func (a *App) Preview(ctx context.Context) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	renderPreview(os.Stdout, preview.Resolve(a.api.BaseURL(), a.profile.Snapshot().CV))
	return nil
}

func renderProfile(w io.Writer, u *models.UserProfile, editing bool) {
	if u == nil {
		fmt.Fprintln(w, "No profile loaded")
		return
	}

	if editing {
		fmt.Fprintln(w, "--- profile (editing) ---")
	} else {
		fmt.Fprintln(w, "--- profile ---")
	}
	fmt.Fprintf(w, "Name:     %s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(w, "Email:    %s\n", u.Email)
	fmt.Fprintf(w, "Phone:    %s (%s)\n", u.PhoneNumber, u.CountryCode)
	fmt.Fprintf(w, "Gender:   %s\n", u.Gender)
	fmt.Fprintf(w, "DOB:      %s\n", u.DateOfBirth)
	fmt.Fprintf(w, "Location: %s, %s, %s\n", u.Address, u.State, u.Country)

	e := u.Education
	fmt.Fprintf(w, "Education: %s at %s, from %s", e.Degree, e.Institution, e.StartYear)
	if e.IsOngoing {
		fmt.Fprint(w, " (ongoing)")
	} else {
		if e.EndDate != "" {
			fmt.Fprintf(w, " to %s", e.EndDate)
		}
		if e.GraduationYear != "" {
			fmt.Fprintf(w, ", graduated %s", e.GraduationYear)
		}
	}
	fmt.Fprintln(w)

	if u.ProfilePicture != "" {
		fmt.Fprintf(w, "Picture:  %s\n", u.ProfilePicture)
	}
	if u.CV != "" {
		fmt.Fprintf(w, "CV:       %s\n", u.CV)
	}
}

func renderPreview(w io.Writer, s preview.Strategy) {
	switch s.Mode {
	case preview.ModeNone:
		fmt.Fprintln(w, preview.MsgNoFile)
	case preview.ModeDownload:
		fmt.Fprintln(w, preview.MsgNotPreviewable)
		fmt.Fprintf(w, "Download: %s\n", s.FileURL)
	default:
		fmt.Fprintf(w, "%s (%s)\n", s.Label, s.FileName)
		fmt.Fprintf(w, "View at: %s\n", s.ViewerURL)
	}
}
