// Package netgsm is a client for the NetGSM REST API.
//
// A Client turns an endpoint name and a set of query parameters into a
// request against {BaseURL}/api/{endpoint}, with the query string in the
// canonical form produced by package query. JSON request bodies, the
// Accept/Content-Type/User-Agent headers and credentials are handled here;
// everything else is left to the injected HTTP transport.
//
// # Basic Usage
//
//	cfg := netgsm.DefaultConfig()
//	cfg.Usercode = "8503020000"
//	cfg.Password = "secret"
//
//	client, err := netgsm.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Get(ctx, "sms/report", query.Params{
//	    "bulkid": query.String("123456"),
//	})
//
// # Errors
//
// New fails with an error matching [ErrMissingCredentials] when the usercode
// or password is empty, and with [ErrInvalidConfig] for any other invalid
// setting. Errors from the transport are returned unchanged. A response
// outside the 2xx range is returned together with a [*StatusError].
//
// # Dependency Injection
//
//	client, err := netgsm.New(cfg,
//	    netgsm.WithHTTPClient(customClient),
//	    netgsm.WithLogger(log.NewZerolog(zl)),
//	    netgsm.WithRequestEditor(func(ctx context.Context, req *http.Request) error {
//	        req.Header.Set("X-Trace", traceID(ctx))
//	        return nil
//	    }),
//	)
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package netgsm
