// Package config provides configuration parsing for vhead projects.
//
// The configuration is stored in vhead.json (or vhead.yaml) at the
// project root. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "name": "Example",
//	  "defaults": {
//	    "titleTemplate": "%s | Example",
//	    "defaultTitle": "Example",
//	    "meta": [{"charset": "utf-8"}]
//	  },
//	  "declarations": ["pages/*.yaml"],
//	  "seo": {
//	    "rules": {"meta": {"name": ["robots"]}}
//	  },
//	  "preview": {
//	    "port": 3000,
//	    "host": "localhost",
//	    "watch": true,
//	    "debounce": "100ms"
//	  },
//	  "log": {"level": "info", "format": "text"}
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
