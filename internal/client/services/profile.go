package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/ele/internal/client/client"
	"github.com/dmitrijs2005/ele/internal/client/media"
	"github.com/dmitrijs2005/ele/internal/client/models"
	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/logging"
)

var (
	ErrProfileNotOpen = errors.New("profile is not open")
	ErrReadOnlyField  = errors.New("field cannot be edited")
	ErrUnknownField   = errors.New("unknown field")
)

// Editable profile fields as typed by the user.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldBirthDate = "birthDate"
	FieldGender    = "gender"
	FieldEmail     = "email"
)

// ProfileService is the profile editor session: one open profile, edited
// in memory and submitted whole.
type ProfileService interface {
	Open(ctx context.Context, ident models.UserIdentity) (*models.UserProfile, error)
	Current() *models.UserProfile
	Edit(field, value string) error
	SetPhotoFromFile(path string) error
	Save(ctx context.Context) error
	Close()
}

type ProfileRepository interface {
	Load(ctx context.Context, ident models.UserIdentity) (*models.UserProfile, error)
	Save(ctx context.Context, uid string, p *models.UserProfile) error
}

type profileService struct {
	repo    ProfileRepository
	logger  logging.Logger
	ident   models.UserIdentity
	profile *models.UserProfile
}

func NewProfileService(repo ProfileRepository, l logging.Logger) ProfileService {
	return &profileService{repo: repo, logger: l.With("module", "profile_form")}
}

func (s *profileService) Open(ctx context.Context, ident models.UserIdentity) (*models.UserProfile, error) {
	if ident.UID == "" {
		return nil, client.ErrNotSignedIn
	}

	p, err := s.repo.Load(ctx, ident)
	if err != nil {
		return nil, err
	}
	s.ident, s.profile = ident, p
	return p, nil
}

func (s *profileService) Current() *models.UserProfile {
	return s.profile
}

// Edit changes one field of the open profile. Email is read-only.
func (s *profileService) Edit(field, value string) error {
	if s.profile == nil {
		return ErrProfileNotOpen
	}

	switch field {
	case FieldFirstName:
		s.profile.FirstName = value
	case FieldLastName:
		s.profile.LastName = value
	case FieldBirthDate:
		d, err := time.Parse(models.BirthDateLayout, value)
		if err != nil {
			return fmt.Errorf("%w: birth date must be YYYY-MM-DD", common.ErrorValidation)
		}
		s.profile.BirthDate = d
	case FieldGender:
		g, ok := models.ParseGender(value)
		if !ok {
			return fmt.Errorf("%w: gender must be male, female or empty", common.ErrorValidation)
		}
		s.profile.Gender = g
	case FieldEmail:
		return fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// SetPhotoFromFile decodes the image at path and marks it pending.
func (s *profileService) SetPhotoFromFile(path string) error {
	if s.profile == nil {
		return ErrProfileNotOpen
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, err := media.Decode(data)
	if err != nil {
		return err
	}
	s.profile.SetImage(img)
	return nil
}

func (s *profileService) Save(ctx context.Context) error {
	if s.profile == nil {
		return ErrProfileNotOpen
	}
	if err := s.repo.Save(ctx, s.ident.UID, s.profile); err != nil {
		s.logger.Error(ctx, "profile save failed", "uid", s.ident.UID, "error", err)
		return err
	}
	return nil
}

func (s *profileService) Close() {
	s.ident, s.profile = models.UserIdentity{}, nil
}
