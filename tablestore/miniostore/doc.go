// Package miniostore provides a table store for MinIO and other
// S3-compatible object storage reachable through the MinIO client.
//
// Use this instead of the s3 package when talking to self-hosted object
// storage; the record format on the wire is identical, so stores can be
// migrated by copying objects.
package miniostore
