// Package profile reads and writes the users/<uid> profile document and
// resolves the avatar shown for it.
package profile

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/dmitrijs2005/ele/internal/client/media"
	"github.com/dmitrijs2005/ele/internal/client/models"
	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/logging"
)

// Document field names.
const (
	FieldEmail       = "email"
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldBirthDate   = "birthDate"
	FieldGender      = "gender"
	FieldImageURL    = "profileImageURL"
	FieldInlineImage = "profileImage"
)

type DocumentStore interface {
	GetDocument(ctx context.Context, collection, id string) (map[string]any, bool, error)
	SetDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error
}

type Media interface {
	Store(ctx context.Context, uid string, img image.Image) (string, error)
	Fetch(ctx context.Context, ref string) (image.Image, error)
	Size() int
}

type Repository struct {
	docs   DocumentStore
	media  Media
	logger logging.Logger
	now    func() time.Time
}

func NewRepository(docs DocumentStore, m Media, l logging.Logger) *Repository {
	return &Repository{docs: docs, media: m, logger: l.With("module", "profile"), now: time.Now}
}

func (r *Repository) Exists(ctx context.Context, uid string) (bool, error) {
	_, found, err := r.docs.GetDocument(ctx, common.UsersCollection, uid)
	if err != nil {
		return false, err
	}
	return found, nil
}

// Load returns the stored profile of ident.UID, seeding a new one from the
// identity when no document exists yet. Malformed fields fall back to their
// defaults and never fail the load.
func (r *Repository) Load(ctx context.Context, ident models.UserIdentity) (*models.UserProfile, error) {
	doc, found, err := r.docs.GetDocument(ctx, common.UsersCollection, ident.UID)
	if err != nil {
		return nil, err
	}
	if !found {
		return r.Seed(ctx, ident)
	}

	p := r.decode(ctx, ident.UID, doc)
	r.resolveAvatar(ctx, p, doc, ident.AvatarURL)
	return p, nil
}

// Seed creates the first profile document of a new user from the identity.
// Gender and birth date stay empty; the provider avatar, if any, is fetched
// and stored as the profile image. A failed avatar fetch aborts the seed and
// nothing is written.
func (r *Repository) Seed(ctx context.Context, ident models.UserIdentity) (*models.UserProfile, error) {
	p := &models.UserProfile{
		Email:     ident.Email,
		FirstName: ident.FirstName,
		LastName:  ident.LastName,
	}

	if ident.AvatarURL != "" {
		img, err := r.media.Fetch(ctx, ident.AvatarURL)
		if err != nil {
			r.logger.Error(ctx, "provider avatar unavailable", "uid", ident.UID, "error", err)
			return nil, fmt.Errorf("fetch provider avatar: %w", err)
		}
		p.SetImage(img)
	}

	if err := r.Save(ctx, ident.UID, p); err != nil {
		return nil, err
	}

	if p.Image == nil {
		p.Image = media.Placeholder(r.media.Size())
		p.AvatarSource = models.AvatarPlaceholder
	}
	return p, nil
}

// Save uploads a pending image first, then overwrites the whole document.
// p is only updated once both steps succeed.
func (r *Repository) Save(ctx context.Context, uid string, p *models.UserProfile) error {
	ref := p.ImageRef
	if p.ImagePending {
		var err error
		if ref, err = r.media.Store(ctx, uid, p.Image); err != nil {
			return fmt.Errorf("store image: %w", err)
		}
	}

	if err := r.docs.SetDocument(ctx, common.UsersCollection, uid, encode(p, ref), false); err != nil {
		return err
	}

	p.ImageRef = ref
	if p.ImagePending {
		p.ImagePending = false
		p.AvatarSource = models.AvatarStored
	}
	return nil
}

// SaveImageOnly merges just the image URL into the document.
//
// Deprecated: use Save, which writes the whole document.
func (r *Repository) SaveImageOnly(ctx context.Context, uid string, p *models.UserProfile) error {
	if !p.ImagePending {
		return nil
	}

	ref, err := r.media.Store(ctx, uid, p.Image)
	if err != nil {
		return fmt.Errorf("store image: %w", err)
	}

	if err := r.docs.SetDocument(ctx, common.UsersCollection, uid, map[string]any{FieldImageURL: ref}, true); err != nil {
		return err
	}

	p.ImageRef = ref
	p.ImagePending = false
	p.AvatarSource = models.AvatarStored
	return nil
}

func encode(p *models.UserProfile, ref string) map[string]any {
	birth := ""
	if !p.BirthDate.IsZero() {
		birth = p.BirthDate.Format(models.BirthDateLayout)
	}

	fields := map[string]any{
		FieldEmail:     p.Email,
		FieldFirstName: p.FirstName,
		FieldLastName:  p.LastName,
		FieldBirthDate: birth,
		FieldGender:    string(p.Gender),
	}

	switch {
	case ref == "":
	case media.IsBlobKey(ref), media.IsURL(ref):
		fields[FieldImageURL] = ref
	default:
		fields[FieldInlineImage] = ref
	}
	return fields
}

func (r *Repository) decode(ctx context.Context, uid string, doc map[string]any) *models.UserProfile {
	p := &models.UserProfile{
		Email:     r.str(ctx, uid, doc, FieldEmail),
		FirstName: r.str(ctx, uid, doc, FieldFirstName),
		LastName:  r.str(ctx, uid, doc, FieldLastName),
	}

	if s := r.str(ctx, uid, doc, FieldBirthDate); s != "" {
		d, err := time.Parse(models.BirthDateLayout, s)
		if err != nil {
			r.logger.Warn(ctx, "malformed birth date", "uid", uid, "value", s, "error", err)
			now := r.now()
			d = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		}
		p.BirthDate = d
	}

	g, ok := models.ParseGender(r.str(ctx, uid, doc, FieldGender))
	if !ok {
		r.logger.Warn(ctx, "unknown gender", "uid", uid, "value", doc[FieldGender])
	}
	p.Gender = g

	return p
}

func (r *Repository) str(ctx context.Context, uid string, doc map[string]any, key string) string {
	v, ok := doc[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.logger.Warn(ctx, "field is not a string", "uid", uid, "field", key)
		return ""
	}
	return s
}

type avatarCandidate struct {
	ref    string
	source models.AvatarSource
}

// resolveAvatar tries the stored image, the inline blob and the provider
// avatar in that order and stops at the first one that decodes.
func (r *Repository) resolveAvatar(ctx context.Context, p *models.UserProfile, doc map[string]any, providerURL string) {
	stored := media.NormalizeRef(r.str(ctx, "", doc, FieldImageURL))
	inline := r.str(ctx, "", doc, FieldInlineImage)

	switch {
	case stored != "":
		p.ImageRef = stored
	case inline != "":
		p.ImageRef = inline
	}

	for _, c := range []avatarCandidate{
		{stored, models.AvatarStored},
		{inline, models.AvatarInline},
		{providerURL, models.AvatarProvider},
	} {
		if c.ref == "" {
			continue
		}
		img, err := r.media.Fetch(ctx, c.ref)
		if err != nil {
			r.logger.Warn(ctx, "avatar source failed", "source", string(c.source), "error", err)
			continue
		}
		p.Image = img
		p.AvatarSource = c.source
		return
	}

	p.Image = media.Placeholder(r.media.Size())
	p.AvatarSource = models.AvatarPlaceholder
}
