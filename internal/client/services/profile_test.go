package services

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ele/internal/client/client"
	"github.com/dmitrijs2005/ele/internal/client/models"
	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/logging"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	return path
}

func TestProfile_NotOpen(t *testing.T) {
	s := NewProfileService(newFakeProfiles(), logging.Nop())

	require.ErrorIs(t, s.Edit(FieldFirstName, "x"), ErrProfileNotOpen)
	require.ErrorIs(t, s.SetPhotoFromFile("x"), ErrProfileNotOpen)
	require.ErrorIs(t, s.Save(context.Background()), ErrProfileNotOpen)
	assert.Nil(t, s.Current())

	_, err := s.Open(context.Background(), models.UserIdentity{})
	require.ErrorIs(t, err, client.ErrNotSignedIn)
}

func TestProfile_EditAndSave(t *testing.T) {
	repo := newFakeProfiles()
	s := NewProfileService(repo, logging.Nop())
	ident := models.UserIdentity{UID: "u1", Email: "ann@example.com"}

	p, err := s.Open(context.Background(), ident)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", p.Email)

	require.NoError(t, s.Edit(FieldFirstName, "Ann"))
	require.NoError(t, s.Edit(FieldLastName, "Lee"))
	require.NoError(t, s.Edit(FieldBirthDate, "1990-05-17"))
	require.NoError(t, s.Edit(FieldGender, "female"))
	require.NoError(t, s.SetPhotoFromFile(writePNG(t, 40, 20)))
	assert.True(t, s.Current().ImagePending)

	require.ErrorIs(t, s.Edit(FieldEmail, "x@y.z"), ErrReadOnlyField)
	require.ErrorIs(t, s.Edit("nickname", "x"), ErrUnknownField)
	require.ErrorIs(t, s.Edit(FieldBirthDate, "17.05.1990"), common.ErrorValidation)
	require.ErrorIs(t, s.Edit(FieldGender, "other"), common.ErrorValidation)

	require.NoError(t, s.Save(context.Background()))
	assert.False(t, s.Current().ImagePending)

	saved := repo.saved["u1"]
	require.NotNil(t, saved)
	assert.Equal(t, "ann@example.com", saved.Email)
	assert.Equal(t, "Ann", saved.FirstName)
	assert.Equal(t, time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), saved.BirthDate)
	assert.Equal(t, models.GenderFemale, saved.Gender)

	s.Close()
	assert.Nil(t, s.Current())
}

func TestProfile_Failures(t *testing.T) {
	repo := newFakeProfiles()
	repo.loadErr = errBoom
	s := NewProfileService(repo, logging.Nop())

	_, err := s.Open(context.Background(), models.UserIdentity{UID: "u1"})
	require.ErrorIs(t, err, errBoom)

	repo.loadErr = nil
	_, err = s.Open(context.Background(), models.UserIdentity{UID: "u1"})
	require.NoError(t, err)

	require.Error(t, s.SetPhotoFromFile(filepath.Join(t.TempDir(), "missing.png")))

	notImage := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(notImage, []byte("hello"), 0o600))
	require.Error(t, s.SetPhotoFromFile(notImage))
	assert.False(t, s.Current().ImagePending)

	repo.saveErr = errBoom
	require.ErrorIs(t, s.Save(context.Background()), errBoom)
}
