package config

// Example usage of the configuration system:
//
// 1. Load configuration with all sources:
//
//     cfg, err := config.Load("", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 2. Load with command line flags:
//
//     flags := map[string]interface{}{
//         "request-delay": 500 * time.Millisecond,
//         "concurrency":   2,
//         "source-order":  []string{"html", "json"},
//         "log-level":     "debug",
//     }
//     cfg, err := config.Load("/path/to/config.yaml", flags)
//
// 3. Environment variables:
//
//     export IGPROFILE_REQUEST_DELAY="2s"
//     export IGPROFILE_USER_DELAY="3s"
//     export IGPROFILE_SOURCE_ORDER="json,html"
//     export IGPROFILE_EMBEDDED_SCAN="balanced"
//     export IGPROFILE_LOG_LEVEL="debug"
//
// 4. Example YAML (.igprofile.yaml):
//
//     instagram:
//       timeout: 10s
//     delay:
//       between_requests: 2s
//       between_users: 3s
//     pipeline:
//       source_order: [json, html]
//       strategies: [JSON_Endpoint, SharedData, MetaTags]
//       embedded_scan: minimal
//     output:
//       format: text
