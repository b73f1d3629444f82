// Package config provides configuration parsing for pageroute projects.
//
// The configuration is stored in pageroute.json at the project root and may
// be overridden by PAGEROUTE_* environment variables.
//
// # Configuration File Structure
//
//	{
//	  "paths": {
//	    "pages": "src/pages",
//	    "locales": "locales"
//	  },
//	  "pages": {
//	    "extension": ".go",
//	    "exclude": "views"
//	  },
//	  "source": {
//	    "kind": "s3",
//	    "bucket": "my-site",
//	    "prefix": "pages/",
//	    "region": "eu-west-1"
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000
//	  },
//	  "i18n": {
//	    "default": "en-US"
//	  }
//	}
//
// # Environment
//
//	PAGEROUTE_SERVER_PORT=8080
//	PAGEROUTE_SOURCE_KIND=s3
//	PAGEROUTE_SOURCE_BUCKET=my-site
//	PAGEROUTE_LOG_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Pages:", cfg.PagesPath())
package config
