package models

import (
	"image"
	"time"
)

type Gender string

const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
)

// ParseGender reports false for anything but the known values; the empty
// string parses as GenderUnspecified.
func ParseGender(s string) (Gender, bool) {
	switch g := Gender(s); g {
	case GenderUnspecified, GenderMale, GenderFemale:
		return g, true
	}
	return GenderUnspecified, false
}

// AvatarSource records where the displayed avatar came from.
type AvatarSource string

const (
	AvatarNone        AvatarSource = ""
	AvatarStored      AvatarSource = "stored"
	AvatarInline      AvatarSource = "inline"
	AvatarProvider    AvatarSource = "provider"
	AvatarPlaceholder AvatarSource = "placeholder"
)

// BirthDateLayout is the wire format of UserProfile.BirthDate.
const BirthDateLayout = "2006-01-02"

// UserProfile is the editable profile of the signed-in user. Image is the
// decoded avatar; ImagePending marks a locally picked image not uploaded
// yet. A non-empty ImageRef is either an http(s) URL or inline base64.
type UserProfile struct {
	Email        string
	FirstName    string
	LastName     string
	BirthDate    time.Time
	Gender       Gender
	Image        image.Image
	ImagePending bool
	ImageRef     string
	AvatarSource AvatarSource
}

// SetImage replaces the avatar with a newly picked one.
func (p *UserProfile) SetImage(img image.Image) {
	p.Image = img
	p.ImagePending = true
}
