// Package retry retries operations that fail transiently, with
// exponential backoff between attempts.
//
// It is used for calls to eventually consistent cloud APIs, such as
// configuring an S3 bucket right after creating it.
package retry
