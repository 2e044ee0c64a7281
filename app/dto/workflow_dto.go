package dto

// AdVideoFormResponse points the user at the n8n ad video form
type AdVideoFormResponse struct {
	FormURL string `json:"formUrl"`
}

// AttachAdVideoRequest records the video produced by the workflow
type AttachAdVideoRequest struct {
	VideoURL string `json:"videoUrl" validate:"required,url"`
	Prompt   string `json:"prompt" validate:"max=4000"`
}
