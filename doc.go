// Command birdseye turns an eBird checklist into a static photo gallery page.
//
// Architecture overview:
//   - CLI: cmd wires cobra commands. The root command and `generate` take a checklist URL; `serve` previews the
//     output directory. Viper (internal/config) merges defaults, an optional config file, BIRDSEYE_* environment
//     variables, flags and the EBIRD_API_KEY entry of a .env file.
//   - Fetch pipeline: internal/app.Pipeline extracts the checklist ID, loads the eBird taxonomy and checklist through
//     internal/ebird, falls back to the hotspot name when the checklist has none, and asks internal/wikipedia for a
//     photo per species. Both clients sit on the Colly-based fetcher in internal/fetcher/colly.
//   - Rendering & output: internal/site renders the page with html/template and writes it through the local blob
//     store. When configured, the same bytes are mirrored to GCS and a "site.generated" event is published on Pub/Sub.
//   - Observability: zap logs go to stderr and carry the run ID; Prometheus collectors count upstream calls, missed
//     enrichments and generations, and can be dumped to a textfile after a run or scraped from `serve`.
//
// Quick checklist:
//   - Put EBIRD_API_KEY in the environment or in .env.
//   - Run: go run . https://ebird.org/checklist/S12345678
//   - Preview: go run . serve, then open http://localhost:8080.
package main
