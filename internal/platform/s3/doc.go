// Package s3 manages the S3 bucket that holds Pulumi state when the CLI runs
// against an s3:// backend.
package s3
