package miniostore

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/tablestore"
)

const objectExt = ".table"

// Store implements tablestore.Store for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a new MinIO table store.
// rootPrefix is prepended to all keys (e.g. "cayley/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name+objectExt)
}

// Put uploads a record, replacing any previous object for the signature.
func (s *Store) Put(ctx context.Context, rec *tablestore.Record) error {
	data, err := tablestore.MarshalRecord(rec)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.key(rec.Key()),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	return err
}

// Get downloads the record for a signature.
func (s *Store) Get(ctx context.Context, sig algebra.Signature) (*tablestore.Record, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(sig.Key()), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, tablestore.ErrNotFound
		}
		return nil, err
	}
	return tablestore.UnmarshalRecord(data)
}

// Delete removes the object for a signature.
func (s *Store) Delete(ctx context.Context, sig algebra.Signature) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(sig.Key()), minio.RemoveObjectOptions{})
	if err != nil && isNotFound(err) {
		return nil
	}
	return err
}

// List downloads every record under the prefix.
func (s *Store) List(ctx context.Context) ([]*tablestore.Record, error) {
	var records []*tablestore.Record

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if path.Ext(obj.Key) != objectExt {
			continue
		}

		r, err := s.client.GetObject(ctx, s.bucket, obj.Key, minio.GetObjectOptions{})
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(r)
		_ = r.Close()
		if err != nil {
			return nil, err
		}
		rec, err := tablestore.UnmarshalRecord(data)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NotFound"
}
