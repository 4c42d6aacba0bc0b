package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/kubecloud/internal/util/retry"
)

// fakeS3 records requests and answers them like a minimal S3 endpoint.
type fakeS3 struct {
	mu       sync.Mutex
	requests []string
	buckets  map[string]bool
	bodies   map[string]string
	// createStatus overrides the CreateBucket response when non-zero.
	createStatus int
	createBody   string
	// versioningFailures answers that many versioning calls with NoSuchBucket.
	versioningFailures int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket := r.URL.Path[1:]
	op := r.Method
	if r.URL.Query().Has("versioning") {
		op += " versioning"
	}
	f.requests = append(f.requests, op+" "+bucket)

	switch op {
	case http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.bodies[op+" "+bucket] = string(body)
		if f.createStatus != 0 {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(f.createStatus)
			_, _ = w.Write([]byte(f.createBody))
			return
		}
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case http.MethodPut + " versioning":
		if f.versioningFailures > 0 {
			f.versioningFailures--
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<Error><Code>NoSuchBucket</Code><Message>gone</Message></Error>`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.bodies[op+" "+bucket] = string(body)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// testClient creates a Client backed by a test HTTP server.
func testClient(t *testing.T, region string, fake *fakeS3) *Client {
	t.Helper()
	if fake.buckets == nil {
		fake.buckets = map[string]bool{}
	}
	fake.bodies = map[string]string{}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
	})
	return &Client{
		s3:        client,
		region:    region,
		retryOpts: []retry.Option{retry.WithDelay(time.Millisecond, time.Millisecond)},
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(context.Background(), Options{
		Region:    "eu-central-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", client.region)
}

func TestBucketFromBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url    string
		bucket string
		ok     bool
	}{
		{"s3://state", "state", true},
		{"s3://state/prefix/dir", "state", true},
		{"s3://state?region=eu-west-1", "state", true},
		{"s3://", "", false},
		{"file://~/.pulumi", "", false},
		{"https://api.pulumi.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			bucket, ok := BucketFromBackend(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.bucket, bucket)
		})
	}
}

func TestEnsureBucket_Creates(t *testing.T) {
	t.Parallel()
	fake := &fakeS3{}
	client := testClient(t, "eu-central-1", fake)

	created, err := client.EnsureBucket(context.Background(), "state")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"HEAD state", "PUT state", "PUT versioning state"}, fake.requests)
	assert.Contains(t, fake.bodies["PUT state"], "<LocationConstraint>eu-central-1</LocationConstraint>")
	assert.Contains(t, fake.bodies["PUT versioning state"], "<Status>Enabled</Status>")
}

func TestEnsureBucket_RetriesVersioningOnNewBucket(t *testing.T) {
	t.Parallel()
	fake := &fakeS3{versioningFailures: 2}
	client := testClient(t, "eu-central-1", fake)

	created, err := client.EnsureBucket(context.Background(), "state")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{
		"HEAD state", "PUT state",
		"PUT versioning state", "PUT versioning state", "PUT versioning state",
	}, fake.requests)
}

func TestEnsureBucket_DefaultRegionHasNoConstraint(t *testing.T) {
	t.Parallel()
	fake := &fakeS3{}
	client := testClient(t, "us-east-1", fake)

	_, err := client.EnsureBucket(context.Background(), "state")
	require.NoError(t, err)
	assert.NotContains(t, fake.bodies["PUT state"], "LocationConstraint")
}

func TestEnsureBucket_Exists(t *testing.T) {
	t.Parallel()
	fake := &fakeS3{buckets: map[string]bool{"state": true}}
	client := testClient(t, "eu-central-1", fake)

	created, err := client.EnsureBucket(context.Background(), "state")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, []string{"HEAD state"}, fake.requests)
}

func TestCreateBucket_AlreadyOwned(t *testing.T) {
	t.Parallel()
	fake := &fakeS3{
		createStatus: http.StatusConflict,
		createBody:   `<Error><Code>BucketAlreadyOwnedByYou</Code><Message>owned</Message></Error>`,
	}
	client := testClient(t, "eu-central-1", fake)

	require.NoError(t, client.CreateBucket(context.Background(), "state"))
}

func TestCreateBucket_TakenByOthers(t *testing.T) {
	t.Parallel()
	fake := &fakeS3{
		createStatus: http.StatusConflict,
		createBody:   `<Error><Code>BucketAlreadyExists</Code><Message>taken</Message></Error>`,
	}
	client := testClient(t, "eu-central-1", fake)

	err := client.CreateBucket(context.Background(), "state")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create bucket state")
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"typed not found", &types.NotFound{}, true},
		{"typed no such bucket", &types.NoSuchBucket{}, true},
		{"api code 404", &smithy.GenericAPIError{Code: "404"}, true},
		{"api code other", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isNotFoundError(tt.err))
		})
	}
}

func TestIsBucketAlreadyOwnedByYou(t *testing.T) {
	t.Parallel()

	assert.False(t, isBucketAlreadyOwnedByYou(nil))
	assert.True(t, isBucketAlreadyOwnedByYou(&types.BucketAlreadyOwnedByYou{}))
	assert.True(t, isBucketAlreadyOwnedByYou(&smithy.GenericAPIError{Code: "BucketAlreadyOwnedByYou"}))
	assert.False(t, isBucketAlreadyOwnedByYou(&types.BucketAlreadyExists{}))
	assert.False(t, isBucketAlreadyOwnedByYou(errors.New("boom")))
}
