package detect

// Detection is one classified sign: a class id, its catalogue label and the
// model's confidence for it.
type Detection struct {
	ClassID    int     `json:"class_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ModelInfo records the configuration a result was produced with, so every
// result is reproducible on its own.
type ModelInfo struct {
	ModelPath           string  `json:"model_path"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	InputShape          []int64 `json:"input_shape"`
	TotalClasses        int     `json:"total_classes"`
}

// Result is the per-image record. Primary is nil (serialized as null) when
// no class cleared the threshold. Failed images carry Detected=false and a
// non-empty Error; their timing and model info fields are omitted from JSON.
type Result struct {
	ImagePath       string      `json:"image_path"`
	Timestamp       string      `json:"timestamp"`
	InferenceTimeMS float64     `json:"inference_time_ms,omitempty"`
	Detected        bool        `json:"detected"`
	Primary         *Detection  `json:"primary_detection"`
	TopPredictions  []Detection `json:"top_predictions"`
	ModelInfo       *ModelInfo  `json:"model_info,omitempty"`
	Error           string      `json:"error,omitempty"`
}
