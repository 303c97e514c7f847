package internal

import "context"

// SampleSource supplies one series of samples per call.
type SampleSource interface {
	Samples(ctx context.Context) ([]float64, error)
}

// Services holds the data sources the UI reads from.
type Services struct {
	Samples SampleSource
}

// NewServices creates a Services container around src.
func NewServices(src SampleSource) *Services {
	return &Services{
		Samples: src,
	}
}
