// Package httpclient is the outbound HTTP layer used by the Telegram client
// and the recognition engines. On top of net/http it adds per-request auth,
// status classification, retries, a response size cap and one client span
// per attempt. Circuit breaking lives one level up in provider.WithResilience.
//
//	client, err := httpclient.New(httpclient.Config{
//	    Name:    "wit",
//	    BaseURL: "https://api.wit.ai",
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
//	resp, err := client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/status"})
//
// The rest subpackage layers typed JSON helpers on top.
package httpclient
