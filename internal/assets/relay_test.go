package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	err    error
	inputs []*s3.PutObjectInput
	bodies [][]byte
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func newTestRelay(putter *fakePutter, publicBaseURL string) *Relay {
	relay := NewRelayWithClient(putter, RelayConfig{
		Region:          "us-east-1",
		GeneratedBucket: "generated-images",
		UploadsBucket:   "user-uploads",
		PublicBaseURL:   publicBaseURL,
	})
	relay.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return relay
}

func TestPersist(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	}))
	defer source.Close()

	putter := &fakePutter{}
	relay := newTestRelay(putter, "")

	stored, err := relay.Persist(context.Background(), source.URL, "user-1", "pred-9")

	require.NoError(t, err)
	require.Len(t, putter.inputs, 1)
	input := putter.inputs[0]
	assert.Equal(t, "generated-images", *input.Bucket)
	assert.Equal(t, "user-1/1700000000000-pred-9.jpg", *input.Key)
	assert.Equal(t, "image/jpeg", *input.ContentType)
	assert.Equal(t, "*", *input.IfNoneMatch, "existing keys must not be overwritten")
	assert.Equal(t, []byte("jpeg-bytes"), putter.bodies[0])

	assert.Equal(t, "user-1/1700000000000-pred-9.jpg", stored.Key)
	assert.Equal(t, "https://generated-images.s3.us-east-1.amazonaws.com/user-1/1700000000000-pred-9.jpg", stored.PublicURL)
}

func TestPersist_DownloadFailure(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer source.Close()

	relay := newTestRelay(&fakePutter{}, "")

	_, err := relay.Persist(context.Background(), source.URL, "user-1", "pred-9")

	require.ErrorIs(t, err, ErrDownload)
}

func TestPersist_UnreachableSource(t *testing.T) {
	relay := newTestRelay(&fakePutter{}, "")

	_, err := relay.Persist(context.Background(), "http://127.0.0.1:1/out.jpg", "user-1", "pred-9")

	require.ErrorIs(t, err, ErrDownload)
}

func TestPersist_UploadFailure(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	}))
	defer source.Close()

	putter := &fakePutter{err: errors.New("PreconditionFailed")}
	relay := newTestRelay(putter, "")

	_, err := relay.Persist(context.Background(), source.URL, "user-1", "pred-9")

	require.ErrorIs(t, err, ErrUpload)
}

func TestStore(t *testing.T) {
	putter := &fakePutter{}
	relay := newTestRelay(putter, "")

	stored, err := relay.Store(context.Background(), "user-2", "my photo.png", []byte("png-bytes"), "image/png")

	require.NoError(t, err)
	require.Len(t, putter.inputs, 1)
	assert.Equal(t, "user-uploads", *putter.inputs[0].Bucket)
	assert.Equal(t, "user-2/1700000000000-my_photo.png", stored.Key)
	assert.Equal(t, "image/png", stored.ContentType)
}

func TestPublicURLOverride(t *testing.T) {
	putter := &fakePutter{}
	relay := newTestRelay(putter, "https://cdn.example.com/")

	stored, err := relay.Store(context.Background(), "user-3", "a.jpg", []byte("x"), "image/jpeg")

	require.NoError(t, err)
	want := fmt.Sprintf("https://cdn.example.com/user-uploads/%s", stored.Key)
	assert.Equal(t, want, stored.PublicURL)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"a/b.jpg", "a%2Fb.jpg"},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
