// Package academy provides the core domain logic for the learning platform
// backend: courses, batches, blog posts, a media gallery, user profiles,
// quote requests and a newsletter list.
//
// Media-backed entities (gallery images, blog thumbnails and banners, user
// photos) keep a relational record and an externally stored blob consistent
// without a shared transaction. The service orchestrates upload-then-persist
// on create, upload-then-commit-then-discard on replace, and
// discard-then-delete on delete, issuing compensating object store calls
// when a later step fails. Compensation failures are logged and reported as
// AssetOutcome warnings, never escalated past the triggering error.
package academy
