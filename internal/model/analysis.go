package model

// AnalyzeRequest is the body of POST /analyze. Audio fields carry base64.
// Pointers distinguish an absent field from an empty one.
type AnalyzeRequest struct {
	GroundTruthAudio *string `json:"groundTruthAudio" validate:"required"`
	UserAudio        *string `json:"userAudio" validate:"required"`
	ExpectedText     *string `json:"expectedText" validate:"required"`
	Language         string  `json:"language,omitempty"`
	Context          string  `json:"context,omitempty"`
}

// FeatureScores are the component similarities reported to clients.
type FeatureScores struct {
	Spectral float64 `json:"spectral"`
	Prosodic float64 `json:"prosodic"`
	Phonetic float64 `json:"phonetic"`
	Overall  float64 `json:"overall"`
}

// AnalyzeResponse is the success body of POST /analyze.
type AnalyzeResponse struct {
	Similarity    float64       `json:"similarity"`
	Transcription string        `json:"transcription"`
	Confidence    float64       `json:"confidence"`
	Features      FeatureScores `json:"features"`
	IsCorrect     bool          `json:"is_correct"`
	Context       string        `json:"context"`
	Status        string        `json:"status"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status                 string `json:"status"`
	Service                string `json:"service"`
	TranscriptionAvailable bool   `json:"transcription_available"`
	// GoogleCloudAvailable mirrors TranscriptionAvailable for older clients.
	GoogleCloudAvailable bool   `json:"google_cloud_available"`
	Provider             string `json:"provider"`
}
