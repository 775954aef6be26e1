// Package config loads the configuration of the hart command.
//
// The configuration lives in hart.json, hart.yaml or hart.yml in the
// working directory. Every field is optional.
//
// # Configuration File Structure
//
//	{
//	  "name": "todo",
//	  "debug": false,
//	  "inspect": {
//	    "addr": "127.0.0.1:7070",
//	    "interval": "500ms"
//	  },
//	  "metrics": {
//	    "namespace": "hart"
//	  },
//	  "record": {
//	    "output": "passes.oplog",
//	    "s3": {
//	      "bucket": "my-bucket",
//	      "prefix": "runs/"
//	    }
//	  },
//	  "demo": {
//	    "items": 5
//	  }
//	}
//
// The same structure in YAML:
//
//	name: todo
//	inspect:
//	  addr: 127.0.0.1:7070
//	  interval: 500ms
//	record:
//	  s3:
//	    bucket: my-bucket
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.Inspect.Addr)
package config
