// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

// Package config loads Sake Sensei configuration with koanf.
//
// Sources are layered, lowest priority first: built-in defaults, an optional
// YAML file (CONFIG_PATH, ./config.yaml or /etc/sakesensei/config.yaml), and
// a fixed set of environment variables. The merged result is validated before
// it is returned, including the ranking policy in recommend.Config.
//
// Example config.yaml:
//
//	server:
//	  port: 3857
//	cache:
//	  backend: redis
//	  redis_addr: redis:6379
//	recommend:
//	  blend:
//	    returning:
//	      historical: 50
//	      collaborative: 20
//	      content: 20
//	      diversity: 10
package config
