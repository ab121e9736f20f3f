// Package bastion provides types, interfaces, and helpers for working with
// the Bastion network-security management platform API.
//
// # Overview
//
// The bastion package defines the generic Record/Endpoint abstraction that
// maps the platform's JSON resource collections onto Go values, the typed
// views layered over it (Device, User, Revision, Workflow, ...), the error
// taxonomy, query parameters, the dynamic operation layer built from the
// platform's published API description, and an optional response cache. A
// concrete client implementation is provided by the bsclient package, which
// wires configuration, transport, and authentication. Most consumers should
// import bsclient to construct a client and interact with the interfaces
// exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/bastionsec-io/bastion-client/pkg/bastion"
//	  "github.com/bastionsec-io/bastion-client/pkg/bsclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := bsclient.New(ctx, &bastion.Config{
//	    Host:     "bastion.example.com",
//	    Username: "api",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  devices, err := cli.SecurityManager().Devices().All(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = devices
//	}
//
// # Records
//
// Every typed view embeds a Record: a schemaless field map that tracks
// which fields were mutated locally. Save sends exactly that subset and
// nothing else; Refresh discards local changes and re-reads the server
// state. Fields the platform derives server-side are masked out of saves
// per endpoint.
//
// # Dynamic operations
//
// Each application publishes a machine-readable API description. When no
// hand-written endpoint exists, App.Operations builds a dispatch table from
// it and Call routes by operation id:
//
//	ops, err := cli.PolicyOptimizer().Operations(ctx)
//	resp, err := ops.Call(ctx, "getRuleReview", &bastion.OperationArgs{
//	  PathParams: map[string]string{"id": "7"},
//	})
//
// Errors carry the original server status and payload; see the Is* helpers.
package bastion
