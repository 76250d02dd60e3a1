// Package bcapi provides types, interfaces, and helpers for working with the extension
// management endpoints of an OData-flavored business application API.
//
// # Overview
//
// The bcapi package defines the domain types (Extension, AssignableRange, Manifest) and the
// interfaces for the resource-oriented clients. A concrete implementation is provided by the
// bcclient package, which validates configuration and wires transport and authentication.
//
//	cli, err := bcclient.New(&bcapi.Config{
//	  APIBaseURL:  "https://bc.example.com/api/v1.0/companies(1)",
//	  APIUsername: "admin",
//	  APIPassword: "secret",
//	})
//	if err != nil { log.Fatal(err) }
//
//	ext, found, err := cli.Extensions().Get(ctx, "6f2a...")
//
// # Queries and pagination
//
// PageQuery expresses the $top, $skip and $filter options. Whole collections are read with
// PageIterator or FetchAllPages, 50 records per request, stopping at the first short page.
//
// # Errors
//
// Every failure is an *Error tagged with an ErrorKind: configuration, invalid manifest,
// unexpected shape, remote, or transport. Use errors.Is with the sentinels (ErrRemote, ...)
// or the IsRemote-style helpers to branch on them. A missing record is not an error.
package bcapi
