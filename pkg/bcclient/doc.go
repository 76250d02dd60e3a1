// Package bcclient provides the primary entry point for constructing a client for the
// extension management OData API that implements the bcapi.Client interface.
//
// It layers configuration and the HTTP transport on top of the resource interfaces and
// types defined in the bcapi package. Most applications should import bcclient to build a
// client, then use the returned bcapi.Client to reach the resource-specific clients.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/bcext/pkg/bcapi"
//	  "github.com/fivetwenty-io/bcext/pkg/bcclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := bcclient.New(&bcapi.Config{
//	    APIBaseURL:  "bc.example.com/api/microsoft/automation/v2.0/companies(1)",
//	    APIUsername: "admin",
//	    APIPassword: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  ext, found, err := cli.Extensions().Get(ctx, "0f1c7c52-5a9e-4d56-9c1f-1f7a5d1f0c11")
//	  if err != nil { log.Fatal(err) }
//	  if found { log.Printf("extension %s", ext.Code) }
//
//	  ranges, err := cli.AssignableRanges().ListAll(ctx)
//	  if err != nil { log.Fatal(err) }
//	  log.Printf("%d assignable ranges", len(ranges))
//	}
//
// Configuration
//
// APIBaseURL, APIUsername and APIPassword are required. A missing value is reported as a
// ConfigurationError before any request is sent. Every request carries a Basic
// Authorization header. Retries are disabled unless Config.RetryMax is positive.
//
// Errors
//
// Every error is a *bcapi.Error tagged with a kind. Use bcapi.IsRemote, bcapi.IsTransport
// and the other helpers to classify them. A RemoteError's message is the server's message,
// unchanged.
package bcclient
