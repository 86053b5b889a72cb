package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ele/internal/client/models"
	"github.com/dmitrijs2005/ele/internal/client/services"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (a *App) printProfile(p *models.UserProfile) {
	birth := ""
	if !p.BirthDate.IsZero() {
		birth = p.BirthDate.Format(models.BirthDateLayout)
	}
	gender := string(p.Gender)
	if gender == "" {
		gender = "unspecified"
	}

	fmt.Fprintf(a.out, "Email:      %s (read-only)\n", orDash(p.Email))
	fmt.Fprintf(a.out, "First name: %s\n", orDash(p.FirstName))
	fmt.Fprintf(a.out, "Last name:  %s\n", orDash(p.LastName))
	fmt.Fprintf(a.out, "Birth date: %s\n", orDash(birth))
	fmt.Fprintf(a.out, "Gender:     %s\n", gender)

	var parts []string
	if p.AvatarSource != models.AvatarNone {
		parts = append(parts, string(p.AvatarSource))
	}
	if p.Image != nil {
		b := p.Image.Bounds()
		parts = append(parts, fmt.Sprintf("%dx%d", b.Dx(), b.Dy()))
	}
	avatar := strings.Join(parts, " ")
	if p.ImagePending {
		avatar += ", not saved yet"
	}
	fmt.Fprintf(a.out, "Photo:      %s\n", orDash(avatar))
}

// Profile loads and prints the signed-in user's profile.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.profileService.Open(ctx, a.identity)
	if err != nil {
		a.report(ctx, "loading profile", err)
		return err
	}
	a.printProfile(p)
	return nil
}

// Edit changes one field: edit <field> <value>. An empty value clears it.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Usage: edit <%s|%s|%s|%s> <value>\n",
			services.FieldFirstName, services.FieldLastName, services.FieldBirthDate, services.FieldGender)
		return nil
	}

	if err := a.profileService.Edit(args[0], strings.Join(args[1:], " ")); err != nil {
		if errors.Is(err, services.ErrProfileNotOpen) {
			fmt.Fprintln(a.out, "Open your profile first (profile)")
			return err
		}
		a.report(ctx, "edit", err)
		return err
	}
	a.printProfile(a.profileService.Current())
	return nil
}

// Photo picks a new profile photo from a local file: photo <path>.
func (a *App) Photo(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: photo <path>")
		return nil
	}
	if err := a.profileService.SetPhotoFromFile(strings.Join(args, " ")); err != nil {
		a.report(ctx, "photo", err)
		return err
	}
	fmt.Fprintln(a.out, "Photo selected, type 'save' to upload it")
	return nil
}

// Save uploads a pending photo and writes the profile.
func (a *App) Save(ctx context.Context) error {
	if err := a.profileService.Save(ctx); err != nil {
		a.report(ctx, "save", err)
		return err
	}
	fmt.Fprintln(a.out, "Profile saved")
	a.printProfile(a.profileService.Current())
	return nil
}
