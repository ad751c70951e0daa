// Package s3 provides an S3-backed table store.
//
// Records are stored as whole objects under a configurable key prefix, one
// object per signature. Uploads go through the s3/manager uploader; S3's
// atomic object replacement gives the upsert semantics the Store contract
// requires without any extra coordination.
package s3
