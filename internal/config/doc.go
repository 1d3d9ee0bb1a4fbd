// Package config loads the rview CLI configuration.
//
// Values come from, in increasing priority: built-in defaults, rview.yaml
// in the working directory (or the file named by --config), RVIEW_*
// environment variables, and command-line flags.
//
//	log:
//	  level: debug
//	  format: json
//	render:
//	  example: todo
//	  title: Todo
//	  pretty: true
//	metrics:
//	  enabled: true
//	  dump: true
//	serve:
//	  addr: localhost:8080
//	  sync_interval: 50ms
//	publish:
//	  region: eu-west-1
//
// # Usage
//
//	vp := config.NewViper()
//	cfg, err := config.Load(vp, "")
//	if err != nil {
//	    errors.Print(os.Stderr, err)
//	}
//	logger := cfg.Logger(os.Stderr)
package config
