package s3

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/tablestore"
)

// MockS3Client mocks the Client interface, including the uploader API.
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.GetObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.DeleteObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.ListObjectsV2Output), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Client) UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.UploadPartOutput), args.Error(1)
}

func (m *MockS3Client) CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.CreateMultipartUploadOutput), args.Error(1)
}

func (m *MockS3Client) CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.CompleteMultipartUploadOutput), args.Error(1)
}

func (m *MockS3Client) AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.AbortMultipartUploadOutput), args.Error(1)
}

func testRecord(sig algebra.Signature) *tablestore.Record {
	return &tablestore.Record{
		Signature:         sig,
		Dimensions:        sig.Dimension(),
		BasisCount:        sig.BasisCount(),
		TableData:         []byte("table-bytes"),
		Checksum:          "cafe",
		ComputedAt:        time.Now().UTC(),
		ComputationTimeMS: 0.5,
	}
}

func TestStore_Put(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "cayley")

	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return *input.Bucket == "test-bucket" && *input.Key == "cayley/cayley_3_0_0.table"
	})).Run(func(args mock.Arguments) {
		input := args.Get(1).(*s3.PutObjectInput)
		data, err := io.ReadAll(input.Body)
		require.NoError(t, err)
		rec, err := tablestore.UnmarshalRecord(data)
		require.NoError(t, err)
		assert.Equal(t, []byte("table-bytes"), rec.TableData)
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	err := store.Put(context.Background(), testRecord(algebra.NewSignature(3, 0, 0)))
	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestStore_Get(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "cayley")

	t.Run("NotFound", func(t *testing.T) {
		mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
			return *input.Key == "cayley/cayley_9_0_0.table"
		})).Return(nil, &types.NoSuchKey{}).Once()

		_, err := store.Get(context.Background(), algebra.NewSignature(9, 0, 0))
		assert.ErrorIs(t, err, tablestore.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		rec := testRecord(algebra.NewSignature(2, 0, 0))
		data, err := tablestore.MarshalRecord(rec)
		require.NoError(t, err)

		mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
			return *input.Key == "cayley/cayley_2_0_0.table"
		})).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(bytes.NewReader(data)),
		}, nil).Once()

		got, err := store.Get(context.Background(), algebra.NewSignature(2, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, rec.Signature, got.Signature)
		assert.Equal(t, rec.TableData, got.TableData)
	})
}

func TestStore_Delete(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "cayley")

	mockClient.On("DeleteObject", mock.Anything, mock.MatchedBy(func(input *s3.DeleteObjectInput) bool {
		return *input.Key == "cayley/cayley_1_1_0.table"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()

	err := store.Delete(context.Background(), algebra.NewSignature(1, 1, 0))
	require.NoError(t, err)
}

func TestStore_List(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "cayley")

	rec := testRecord(algebra.NewSignature(3, 0, 0))
	data, err := tablestore.MarshalRecord(rec)
	require.NoError(t, err)

	mockClient.On("ListObjectsV2", mock.Anything, mock.Anything).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("cayley/cayley_3_0_0.table")},
			{Key: aws.String("cayley/README.md")}, // ignored
		},
	}, nil).Once()
	mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
		return *input.Key == "cayley/cayley_3_0_0.table"
	})).Return(&s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil).Once()

	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.Signature, records[0].Signature)
}

