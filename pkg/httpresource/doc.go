// Package httpresource provides cacheable JSON resources fetched over HTTP.
//
// A Client wraps hashicorp/go-retryablehttp so transport errors and 5xx
// answers are retried with backoff. A Model[T] is one JSON document at one
// path; it satisfies fetcher.Resource and records the final status code.
//
// # Usage
//
//	api := httpresource.NewClient("https://api.example.com",
//		httpresource.WithRetryMax(2),
//		httpresource.WithHeader("Authorization", "Bearer "+token),
//	)
//
//	newUser := httpresource.Constructor[User](api, func(args fetcher.Args) string {
//		return "/users/" + args["userId"].(string)
//	})
//
//	f, _ := coord.Request(ctx, key, newUser, fetcher.WithArgs(fetcher.Args{"userId": "zorah"}))
//	res, err := f.AwaitContext(ctx)
//	if errors.Is(err, httpresource.ErrUnexpectedStatus) {
//		// 4xx or 5xx after retries
//	}
//	user := res.Resource.(*httpresource.Model[User]).Data()
//
// Change listeners registered with OnChange are dropped when the model is
// evicted from the cache.
package httpresource
