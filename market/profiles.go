package market

import (
	"context"
	"errors"
	"strings"

	"github.com/mcmanyika/Musika/realtime"
	"github.com/mcmanyika/Musika/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileInput holds editable profile fields. Photo is a URL, data URL or bare
// base64 image; empty keeps the current photo.
type ProfileInput struct {
	FullName           string
	Phone              string
	Address            string
	City               string
	Country            string
	BusinessName       string
	BusinessType       string
	RegistrationNumber string
	BusinessAddress    string
	Photo              string
}

type ProfileView struct {
	Profile types.UserProfile
	Stats   types.UserRatingStats
}

// UpsertProfile saves the actor's profile. A new photo is uploaded first; an
// upload failure aborts the save.
func (s *Service) UpsertProfile(ctx context.Context, user Actor, in ProfileInput) (*types.UserProfile, error) {
	if err := user.check(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, invalid("fullName", "is required")
	}

	var existing types.UserProfile
	err := s.db.WithContext(ctx).First(&existing, "user_id = ?", user.ID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, remote("load profile", err)
	}

	photoURL := existing.ProfilePhotoURL
	if photo := strings.TrimSpace(in.Photo); isURL(photo) {
		photoURL = photo
	} else if photo != "" {
		photoURL, err = s.uploadImage(ctx, BucketProfilePhotos, "photo", photo, func(ext string) string {
			return user.ID + "/profile" + ext
		})
		if err != nil {
			return nil, remote("upload profile photo", err)
		}
	}

	p := types.UserProfile{
		UserID:             user.ID,
		FullName:           strings.TrimSpace(in.FullName),
		Phone:              strings.TrimSpace(in.Phone),
		Address:            strings.TrimSpace(in.Address),
		City:               strings.TrimSpace(in.City),
		Country:            strings.TrimSpace(in.Country),
		BusinessName:       strings.TrimSpace(in.BusinessName),
		BusinessType:       strings.TrimSpace(in.BusinessType),
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		BusinessAddress:    strings.TrimSpace(in.BusinessAddress),
		ProfilePhotoURL:    photoURL,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "phone", "address", "city", "country", "business_name",
			"business_type", "registration_number", "business_address",
			"profile_photo_url", "updated_at",
		}),
	}).Create(&p).Error
	if err != nil {
		return nil, remote("save profile", err)
	}

	s.publish(ctx, types.TableProfiles, realtime.Update)
	return s.loadProfile(ctx, user.ID)
}

func (s *Service) loadProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	var p types.UserProfile
	if err := s.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, lookupErr("profile", userID, err)
	}
	return &p, nil
}

// Profile returns a user's profile together with their rating stats.
func (s *Service) Profile(ctx context.Context, userID string) (*ProfileView, error) {
	p, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Profile: *p, Stats: s.RatingStats(ctx, userID)}, nil
}
