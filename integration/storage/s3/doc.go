// Package s3 stores the session snapshot as one object in Amazon S3 or an
// S3-compatible service (MinIO, DigitalOcean Spaces, Wasabi).
//
//	cfg := s3.Config{
//		Bucket: "my-app",
//		Region: "us-east-1",
//		// Optional; IAM roles or the environment are used when empty.
//		AccessKeyID: "AKIA...",
//		SecretKey:   "...",
//	}
//
//	client, err := s3.NewClient(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store, err := session.NewStore(ctx, s3.NewSessionBackend(client, cfg.Bucket, cfg.SessionKey))
//
// A missing object reads as an empty snapshot. SDK errors are classified into the
// package sentinels (ErrBucketNotFound, ErrAccessDenied, ErrServiceUnavailable...)
// so callers can branch with errors.Is. For MinIO set Endpoint and ForcePathStyle.
package s3
