// Package upload stores post cover images and generates their storage keys.
//
// Keys are produced by the pure GenerateStorageKey function so naming is
// testable in isolation; Storage implementations (local filesystem for
// development, S3-compatible object storage for production) only ever
// receive a ready-made key.
package upload
