// Package query builds canonical request URLs for the NetGSM REST API.
//
// NetGSM endpoints accept flat query strings in which one level of nested
// parameters is expressed with bracket notation (filter[status]=1). This
// package turns a URL plus a set of parameters into a URL whose query string
// is deterministic: keys sorted byte-wise, values percent-encoded the way
// JavaScript's encodeURIComponent does it, and literal brackets kept in keys.
//
// # Usage
//
//	u, err := query.Normalize("https://api.netgsm.com.tr/api/sms", query.Params{
//	    "page":   query.Int(2),
//	    "filter": query.StringMap(map[string]string{"status": "1"}),
//	})
//	// u == "https://api.netgsm.com.tr/api/sms?filter[status]=1&page=2"
//
// Parameters already present in the URL are kept unless a supplied parameter
// has the same key, in which case the supplied value wins.
//
// # Quirks
//
// When the URL carries a '?' or params is non-empty, the result always
// contains a '?', even if no pairs remain. A URL without a query and an empty
// Params is returned untouched.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package query
