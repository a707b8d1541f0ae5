// Package redisresource provides cacheable JSON resources read from Redis,
// plus connection helpers.
//
// The package wraps go-redis and adds:
//
//   - Connect, which retries the connection using the supplied Config.
//   - Healthcheck, a probe for liveness or readiness checks.
//   - Model[T], a fetcher.Resource decoding the JSON value of one key.
//
// # Usage
//
//	var cfg redisresource.Config
//	config.MustLoad(&cfg)
//
//	client, err := redisresource.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	newSession := redisresource.Constructor[Session](client, cfg, func(args fetcher.Args) string {
//		return "session:" + args["sessionId"].(string)
//	}, time.Minute)
//
//	f, _ := coord.Request(ctx, key, newSession, fetcher.WithArgs(fetcher.Args{"sessionId": id}))
//
// # Errors
//
// Fetch failures wrap ErrNotFound (status 404), ErrUnavailable (503) or
// ErrDecodeValue (500). Connection helpers wrap go-redis errors with
// ErrFailedToParseRedisConnString, ErrRedisNotReady and ErrHealthcheckFailed
// using errors.Join.
package redisresource
