// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

/*
Package supervisor runs the server's long-lived goroutines under a suture v4
supervisor tree.

	sakesensei (root)
	├── maintenance-layer
	│   ├── similarity-cache-janitor
	│   └── duckdb-checkpoint
	└── api-layer
	    └── http-server

Failed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog, bridged to zerolog by logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)

The service wrappers live in the services subpackage.
*/
package supervisor
