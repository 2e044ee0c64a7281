package dto

// GenerateBrandKitRequest represents a brand kit request
type GenerateBrandKitRequest struct {
	BrandName   string `json:"brandName" validate:"required,max=128"`
	Industry    string `json:"industry" validate:"required,max=128"`
	Personality string `json:"personality" validate:"omitempty,max=64"`
}

// FontPair is a primary/secondary typeface pairing
type FontPair struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// SocialTemplates holds ready-to-post drafts per network
type SocialTemplates struct {
	Instagram []string `json:"instagram"`
	Twitter   []string `json:"twitter"`
	LinkedIn  []string `json:"linkedin"`
}

// BrandKitMetadata echoes the inputs of a brand kit
type BrandKitMetadata struct {
	BrandName   string `json:"brandName"`
	Industry    string `json:"industry"`
	Personality string `json:"personality"`
	GeneratedAt string `json:"generatedAt"`
}

// BrandKitResponse is a generated brand kit
type BrandKitResponse struct {
	Logo            string           `json:"logo"`
	ColorPalette    []string         `json:"colorPalette"`
	Fonts           []FontPair       `json:"fonts"`
	BrandTone       string           `json:"brandTone"`
	SocialTemplates SocialTemplates  `json:"socialTemplates"`
	Metadata        BrandKitMetadata `json:"metadata"`
}
