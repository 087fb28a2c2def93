// Package config loads runtime configuration for the studydeck CLI.
//
// Values are read from four sources, each overriding the one before:
//
//  1. built-in defaults ((*Config).LoadDefaults);
//  2. a dotenv file (-env, or ./.env when present) and STUDYDECK_*
//     environment variables;
//  3. the JSON file named by -c or -config;
//  4. command-line flags.
//
// Flags:
//
//	-a host:port  deck server
//	-g url        generation API base URL
//	-d dir        data directory
//	-i seconds    online status check interval
//	-f millis     transcript flush interval
//
// Environment:
//
//	STUDYDECK_SERVER_ADDR, STUDYDECK_GENERATION_URL, STUDYDECK_DATA_DIR,
//	STUDYDECK_ONLINE_CHECK_INTERVAL, STUDYDECK_FLUSH_INTERVAL,
//	STUDYDECK_FAILURE_THRESHOLD, STUDYDECK_REFRESH_SCHEDULE,
//	STUDYDECK_LANGUAGE_CODE, STUDYDECK_REQUEST_TIMEOUT, STUDYDECK_LOG_LEVEL
//
// In the JSON file durations may be strings ("3s") or nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "generation_base_url": "http://localhost:8000/api",
//	  "online_check_interval": "3s",
//	  "flush_interval": "1s",
//	  "refresh_schedule": "@every 1m"
//	}
package config
