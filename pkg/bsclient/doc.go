// Package bsclient provides the primary entry point for constructing a
// Bastion API client that implements the bastion.Client interface.
//
// It layers configuration, HTTP transport, authentication, and the server
// version/domain probes on top of the types defined in the bastion package.
// Most applications should import bsclient to build a client, then use the
// returned bastion.Client to reach the platform applications, for example
// SecurityManager() and PolicyPlanner().
//
// Quick start
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
//	  // Username/password: tokens are obtained from the platform login
//	  // endpoint and renewed automatically.
//	  cli, err := bsclient.New(ctx, &bastion.Config{
//	    Host:     "bastion.example.com",
//	    Username: "admin",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with a bearer token you already have:
//	  cli, err = bsclient.NewWithToken(ctx, "bastion.example.com", "eyJhbGciOi...")
//	  if err != nil { log.Fatal(err) }
//
//	  devices, err := cli.SecurityManager().Devices().All(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = devices
//	}
//
// Configuration can also be loaded from a file or BASTION_* environment
// variables with LoadConfig.
package bsclient
