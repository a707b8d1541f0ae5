package s3resource_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rescache/pkg/cache"
	"github.com/dmitrymomot/rescache/pkg/fetcher"
	"github.com/dmitrymomot/rescache/pkg/s3resource"
	"github.com/dmitrymomot/rescache/pkg/scheduler"
)

// MockS3Client is a mock implementation of the ObjectGetter interface
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

type planet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func objectInput(bucket, key string) any {
	return mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Bucket) == bucket && aws.ToString(in.Key) == key
	})
}

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func TestModel_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("decodes object", func(t *testing.T) {
		modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, objectInput("catalog", "planets/earth.json")).Return(&s3.GetObjectOutput{
			Body:         body(`{"id":"earth","name":"Earth"}`),
			ETag:         aws.String(`"abc123"`),
			LastModified: aws.Time(modified),
		}, nil)

		m := s3resource.New[planet](client, "catalog", "planets/earth.json", time.Hour)
		status, err := m.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, planet{ID: "earth", Name: "Earth"}, m.Data())
		assert.Equal(t, `"abc123"`, m.ETag())
		assert.Equal(t, modified, m.LastModified())
		assert.Equal(t, time.Hour, m.CacheTimeout())
		client.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything).Return(&s3.GetObjectOutput{Body: body("<xml/>")}, nil)

		status, err := s3resource.New[planet](client, "catalog", "planets/earth.json", 0).Fetch(context.Background())
		assert.ErrorIs(t, err, s3resource.ErrDecodeObject)
		assert.Equal(t, http.StatusInternalServerError, status)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		want   error
	}{
		{"no such key", &types.NoSuchKey{}, http.StatusNotFound, s3resource.ErrObjectNotFound},
		{"no such bucket", &types.NoSuchBucket{}, http.StatusNotFound, s3resource.ErrBucketNotFound},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, http.StatusForbidden, s3resource.ErrAccessDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, http.StatusServiceUnavailable, s3resource.ErrServiceUnavailable},
		{"transport", errors.New("connection reset by peer"), http.StatusServiceUnavailable, s3resource.ErrServiceUnavailable},
		{"deadline", context.DeadlineExceeded, 0, context.DeadlineExceeded},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			client := &MockS3Client{}
			client.On("GetObject", mock.Anything, mock.Anything).Return(nil, tc.err)

			status, err := s3resource.New[planet](client, "catalog", "planets/earth.json", 0).Fetch(context.Background())
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, tc.status, status)
		})
	}

	t.Run("unknown api error keeps the cause", func(t *testing.T) {
		apiErr := &smithy.GenericAPIError{Code: "InvalidObjectState"}
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything).Return(nil, apiErr)

		status, err := s3resource.New[planet](client, "catalog", "planets/earth.json", 0).Fetch(context.Background())
		assert.ErrorIs(t, err, apiErr)
		assert.Equal(t, http.StatusBadGateway, status)
	})
}

func TestModel_ThroughCoordinator(t *testing.T) {
	t.Parallel()

	client := &MockS3Client{}
	client.On("GetObject", mock.Anything, objectInput("catalog", "planets/earth.json")).Return(&s3.GetObjectOutput{
		Body: body(`{"id":"earth"}`),
	}, nil).Once()
	client.On("GetObject", mock.Anything, objectInput("catalog", "planets/pluto.json")).Return(nil, &types.NoSuchKey{}).Once()

	clock := scheduler.NewVirtual()
	store := cache.New(cache.WithScheduler(clock))
	t.Cleanup(func() { _ = store.Close() })
	coord := fetcher.New(store)

	ctor := s3resource.Constructor[planet](client, "catalog", func(args fetcher.Args) string {
		return "planets/" + args["planetId"].(string) + ".json"
	}, 0)

	results, err := coord.RequestAll(context.Background(),
		fetcher.Request{Key: "planet~planetId=earth", Constructor: ctor, Options: []fetcher.RequestOption{
			fetcher.WithArgs(fetcher.Args{"planetId": "earth"}),
		}},
		fetcher.Request{Key: "planet~planetId=pluto", Constructor: ctor, Options: []fetcher.RequestOption{
			fetcher.WithArgs(fetcher.Args{"planetId": "pluto"}),
		}},
	)
	require.ErrorIs(t, err, s3resource.ErrObjectNotFound)
	require.Len(t, results, 2)

	earth := results[0].Resource.(*s3resource.Model[planet])
	assert.Equal(t, "earth", earth.Data().ID)
	assert.Equal(t, http.StatusOK, earth.Status())
	assert.Equal(t, http.StatusNotFound, results[1].Status)

	assert.True(t, coord.ExistsInCache("planet~planetId=earth"))
	assert.False(t, coord.ExistsInCache("planet~planetId=pluto"))
	client.AssertExpectations(t)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("requires bucket and region", func(t *testing.T) {
		_, err := s3resource.NewClient(context.Background(), s3resource.Config{Bucket: "catalog"})
		assert.ErrorIs(t, err, s3resource.ErrInvalidConfig)
	})

	t.Run("static credentials and custom endpoint", func(t *testing.T) {
		var applied bool
		client, err := s3resource.NewClient(context.Background(), s3resource.Config{
			Bucket:         "catalog",
			Region:         "us-east-1",
			AccessKeyID:    "test",
			SecretKey:      "test",
			Endpoint:       "http://127.0.0.1:9000",
			ForcePathStyle: true,
		}, s3resource.WithClientOption(func(o *s3.Options) {
			applied = true
			assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(o.BaseEndpoint))
			assert.True(t, o.UsePathStyle)
		}))
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.True(t, applied)
	})
}
