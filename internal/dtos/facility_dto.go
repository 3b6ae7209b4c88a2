package dtos

type FacilityCreationRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=hospital complex center clinic other"`
	City string `json:"city" binding:"required"`

	NameEn        *string `json:"name_en"`
	Address       *string `json:"address"`
	GoogleMapsURL *string `json:"google_maps_url"`
	Latitude      *string `json:"latitude"`
	Longitude     *string `json:"longitude"`
	Phone         *string `json:"phone"`
	WhatsApp      *string `json:"whatsapp"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Website       *string `json:"website"`
	ImageURL      *string `json:"image_url"`
	Snapchat      *string `json:"snapchat"`
	Instagram     *string `json:"instagram"`
	Facebook      *string `json:"facebook"`
	Twitter       *string `json:"twitter"`
	TikTok        *string `json:"tiktok"`

	VerificationStatus string `json:"verification_status" binding:"omitempty,oneof=verified pending unverified"`
	IsActive           *bool  `json:"is_active"` // Defaults to true
}

type FacilityUpdateRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1"`
	Type          *string `json:"type" binding:"omitempty,oneof=hospital complex center clinic other"`
	City          *string `json:"city" binding:"omitempty,min=1"`
	NameEn        *string `json:"name_en"`
	Address       *string `json:"address"`
	GoogleMapsURL *string `json:"google_maps_url"`
	Latitude      *string `json:"latitude"`
	Longitude     *string `json:"longitude"`
	Phone         *string `json:"phone"`
	WhatsApp      *string `json:"whatsapp"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Website       *string `json:"website"`
	ImageURL      *string `json:"image_url"`
	Snapchat      *string `json:"snapchat"`
	Instagram     *string `json:"instagram"`
	Facebook      *string `json:"facebook"`
	Twitter       *string `json:"twitter"`
	TikTok        *string `json:"tiktok"`

	VerificationStatus *string `json:"verification_status" binding:"omitempty,oneof=verified pending unverified"`
	IsActive           *bool   `json:"is_active"`
}

type NoteCreationRequest struct {
	Note   string   `json:"note" binding:"required"`
	Images []string `json:"images" binding:"omitempty,dive,url"`
}
