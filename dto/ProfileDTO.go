package dto

import (
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/types"
)

type UpdateProfileRequest struct {
	FullName           string `json:"fullName" validate:"required,max=200"`
	Phone              string `json:"phone" validate:"max=32"`
	Address            string `json:"address"`
	City               string `json:"city"`
	Country            string `json:"country"`
	BusinessName       string `json:"businessName"`
	BusinessType       string `json:"businessType"`
	RegistrationNumber string `json:"registrationNumber"`
	BusinessAddress    string `json:"businessAddress"`
	ProfilePhoto       string `json:"profilePhoto"`
}

func (r UpdateProfileRequest) ToInput() market.ProfileInput {
	return market.ProfileInput{
		FullName:           r.FullName,
		Phone:              r.Phone,
		Address:            r.Address,
		City:               r.City,
		Country:            r.Country,
		BusinessName:       r.BusinessName,
		BusinessType:       r.BusinessType,
		RegistrationNumber: r.RegistrationNumber,
		BusinessAddress:    r.BusinessAddress,
		Photo:              r.ProfilePhoto,
	}
}

type ProfileResponse struct {
	UserID             string                `json:"userId"`
	FullName           string                `json:"fullName"`
	Phone              string                `json:"phone,omitempty"`
	Address            string                `json:"address,omitempty"`
	City               string                `json:"city,omitempty"`
	Country            string                `json:"country,omitempty"`
	BusinessName       string                `json:"businessName,omitempty"`
	BusinessType       string                `json:"businessType,omitempty"`
	RegistrationNumber string                `json:"registrationNumber,omitempty"`
	BusinessAddress    string                `json:"businessAddress,omitempty"`
	ProfilePhotoURL    string                `json:"profilePhotoUrl,omitempty"`
	Stats              types.UserRatingStats `json:"stats"`
}

func ToProfileResponse(v market.ProfileView) ProfileResponse {
	p := v.Profile
	return ProfileResponse{
		UserID:             p.UserID,
		FullName:           p.FullName,
		Phone:              p.Phone,
		Address:            p.Address,
		City:               p.City,
		Country:            p.Country,
		BusinessName:       p.BusinessName,
		BusinessType:       p.BusinessType,
		RegistrationNumber: p.RegistrationNumber,
		BusinessAddress:    p.BusinessAddress,
		ProfilePhotoURL:    p.ProfilePhotoURL,
		Stats:              v.Stats,
	}
}
