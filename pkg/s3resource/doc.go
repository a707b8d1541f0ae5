// Package s3resource provides cacheable JSON resources stored as S3 objects.
//
// Model[T] downloads one object with GetObject and decodes its body. S3
// failures are mapped to HTTP status codes and sentinel errors:
//
//   - NoSuchKey: 404, ErrObjectNotFound
//   - NoSuchBucket: 404, ErrBucketNotFound
//   - AccessDenied: 403, ErrAccessDenied
//   - SlowDown, ServiceUnavailable and transport failures: 503, ErrServiceUnavailable
//
// # Usage
//
//	client, err := s3resource.NewClient(ctx, s3resource.Config{
//		Bucket: "catalog",
//		Region: "eu-central-1",
//	})
//	if err != nil {
//		return err
//	}
//
//	newPlanet := s3resource.Constructor[Planet](client, "catalog", func(args fetcher.Args) string {
//		return "planets/" + args["planetId"].(string) + ".json"
//	}, 10*time.Minute)
//
// Any type with a GetObject method matching *s3.Client can stand in for the
// client, which keeps tests free of network access.
package s3resource
