// Package download provides the acquisition pipeline that materializes
// GoPro cloud media items as local file groups.
//
// # Manager
//
// The Manager coordinates the whole acquisition run:
//
//  1. Page through the media catalog under an item budget
//  2. Fetch and persist highlights sidecars for items with HiLight moments
//  3. Persist the metadata sidecar for every item
//  4. Download payloads that are not already present
//  5. Optionally download the GPMF telemetry sidecar
//
// # Basic Usage
//
//	manager := download.NewManager(settings, catalog, client, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	result, err := manager.Run(ctx)
//	fmt.Printf("%d seen, %d skipped, %d errors\n", result.Seen, result.Skipped, result.Errored)
//
// # Idempotency
//
// Presence of the payload at its expected path is the completion
// marker: existing files are never re-downloaded and sidecars are never
// rewritten, so re-running against the same output directory performs
// no additional payload downloads. Sidecar writes use an atomic
// create-if-absent, making the check-then-write race-free under
// concurrency.
//
// # Failure policy
//
// A failed catalog page fetch aborts the run. A failed individual item
// (sidecar save or download) is reported through the progress callback
// and counted in Result.Errored; the run continues with the next item.
//
// # Concurrency
//
// Items are processed with bounded concurrency
// (Settings.MaxConcurrentDownloads, default 1). A per-run claim table
// keyed by base name keeps the exists-check and download a single
// decision point per item.
package download
