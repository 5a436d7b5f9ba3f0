package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"image_gateway/internal/utils"
)

var (
	// ErrDownload is returned when the source URL cannot be fetched
	ErrDownload = errors.New("failed to download asset")

	// ErrUpload is returned when the object store rejects the upload
	ErrUpload = errors.New("failed to upload asset")
)

// ObjectPutter is the slice of the S3 API the relay needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// RelayConfig holds asset relay settings
type RelayConfig struct {
	Region          string
	GeneratedBucket string
	UploadsBucket   string
	PublicBaseURL   string
}

// Relay copies an ephemeral provider-hosted asset into the application's own
// object store. It performs no transformation of the bytes; its whole job is
// turning a short-lived URL into a durable one under a deterministic key.
type Relay struct {
	s3              ObjectPutter
	http            *http.Client
	region          string
	generatedBucket string
	uploadsBucket   string
	publicBaseURL   string
	logger          *utils.Logger

	// now is swappable in tests so storage keys are deterministic
	now func() time.Time
}

// NewRelay creates a relay backed by the default AWS config chain
func NewRelay(ctx context.Context, cfg RelayConfig) (*Relay, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewRelayWithClient(s3.NewFromConfig(awsCfg), cfg), nil
}

// NewRelayWithClient creates a relay with an explicit S3 client (tests use a
// fake ObjectPutter here)
func NewRelayWithClient(client ObjectPutter, cfg RelayConfig) *Relay {
	return &Relay{
		s3:              client,
		http:            &http.Client{Timeout: 60 * time.Second},
		region:          cfg.Region,
		generatedBucket: cfg.GeneratedBucket,
		uploadsBucket:   cfg.UploadsBucket,
		publicBaseURL:   strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:          utils.NewLogger("asset-relay"),
		now:             time.Now,
	}
}

// StoredObject describes the durable copy of a relayed asset.
type StoredObject struct {
	Bucket      string
	Key         string
	PublicURL   string
	ContentType string
}

// Persist downloads the asset at srcURL and re-uploads it into the generated
// images bucket under {userID}/{unixMillis}-{predictionID}.jpg. The upload
// refuses to overwrite an existing key.
func (r *Relay) Persist(ctx context.Context, srcURL, userID, predictionID string) (*StoredObject, error) {
	body, err := r.download(ctx, srcURL)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%d-%s.jpg", userID, r.now().UnixMilli(), predictionID)
	return r.put(ctx, r.generatedBucket, key, body, "image/jpeg")
}

// Store uploads caller-supplied bytes into the user uploads bucket under
// {userID}/{unixMillis}-{name}. Used by the source-image upload endpoint.
func (r *Relay) Store(ctx context.Context, userID, name string, body []byte, contentType string) (*StoredObject, error) {
	key := fmt.Sprintf("%s/%d-%s", userID, r.now().UnixMilli(), sanitizeName(name))
	return r.put(ctx, r.uploadsBucket, key, body, contentType)
}

func (r *Relay) download(ctx context.Context, srcURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %s", ErrDownload, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	return body, nil
}

func (r *Relay) put(ctx context.Context, bucket, key string, body []byte, contentType string) (*StoredObject, error) {
	_, err := r.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		// Conditional write: fail instead of silently replacing an existing
		// object under the same key.
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	obj := &StoredObject{
		Bucket:      bucket,
		Key:         key,
		PublicURL:   r.publicURL(bucket, key),
		ContentType: contentType,
	}

	r.logger.Info("stored asset", "bucket", bucket, "key", key, "bytes", len(body))
	return obj, nil
}

func (r *Relay) publicURL(bucket, key string) string {
	if r.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", r.publicBaseURL, bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, r.region, key)
}

// sanitizeName keeps uploaded file names URL- and key-safe
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return url.PathEscape(name)
}
