// Package gopro implements the client for the GoPro cloud media
// catalog.
//
// The Catalog type covers the three API interactions the pipeline
// needs:
//
//	items, err := catalog.ListPage(ctx, page, perPage, includePhotos)
//	info, err := catalog.GetDownloadInfo(ctx, itemID)
//	raw, err := catalog.GetHighlights(ctx, itemID)
//
// Responses are decoded through typed records in the dto subpackage; a
// malformed payload yields a *RemoteError rather than a silent zero
// value.
//
// # Pagination
//
// ListPage fetches exactly one page. Driving the catalog page-by-page
// under an item budget is the download manager's job: it stops when a
// page comes back empty or the budget is reached.
//
// # Errors
//
// Every failure surfaces as a *RemoteError carrying the operation and,
// for non-success responses, the HTTP status. The catalog never
// retries; retry policy belongs to the caller.
package gopro
