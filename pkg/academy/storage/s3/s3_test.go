package s3

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campuskit/academy/pkg/academy"
)

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name:   "explicit base URL wins",
			config: Config{PublicBaseURL: "https://cdn.example.com/", Endpoint: "http://minio:9000", Bucket: "b"},
			want:   "https://cdn.example.com",
		},
		{
			name:   "endpoint derives bucket URL",
			config: Config{Endpoint: "http://localhost:9000/", Bucket: "assets"},
			want:   "http://localhost:9000/assets",
		},
		{
			name:   "plain AWS virtual-host URL",
			config: Config{Bucket: "assets", Region: "eu-west-1"},
			want:   "https://assets.s3.eu-west-1.amazonaws.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBaseURL(tt.config))
		})
	}
}

func TestObjectKey(t *testing.T) {
	key := objectKey(academy.UploadParams{Namespace: "gallery", FileName: "Photo.JPG"})
	assert.True(t, strings.HasPrefix(key, "gallery/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"), "extension is kept lowercased")

	other := objectKey(academy.UploadParams{Namespace: "gallery", FileName: "Photo.JPG"})
	assert.NotEqual(t, key, other, "keys must be unique per upload")

	noExt := objectKey(academy.UploadParams{Namespace: "users/profiles", FileName: "blob"})
	assert.True(t, strings.HasPrefix(noExt, "users/profiles/"))
	assert.NotContains(t, noExt[len("users/profiles/"):], ".")
}
