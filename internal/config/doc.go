// Package config provides configuration parsing for the reactivity tools.
//
// The configuration is stored in reactivity.json, or reactivity.yaml when no
// JSON file exists. This package handles loading, saving, and validating
// configuration. Command-line flags override loaded values.
//
// # Configuration File Structure
//
//	{
//	  "devMode": true,
//	  "inspector": {
//	    "host": "localhost",
//	    "port": 7331
//	  },
//	  "scheduler": {
//	    "maxRunsPerFlush": 100,
//	    "buffer": 256
//	  },
//	  "recorder": {
//	    "size": 1024
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "reactivity"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "name": "reactivity"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.InspectorURL())
package config
