package s3_test

import (
	"testing"

	"cowork/config"
	"cowork/infras/otel/mocks"
	"cowork/infras/s3"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.APIEndpoint = "http://localhost:9000"
	cfg.External.S3.BucketName = "cowork"
	cfg.External.S3.PublicDomain = "https://cdn.example.com/"

	storage := s3.New(cfg, mocks.NewOtel())

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "own url", url: "https://cdn.example.com/meetingroom/a.png", want: "meetingroom/a.png"},
		{name: "foreign url", url: "https://other.example.com/meetingroom/a.png", want: ""},
		{name: "empty", url: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.ObjectKey(tt.url))
		})
	}
}
