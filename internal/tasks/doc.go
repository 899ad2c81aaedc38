// package tasks implements the playlist ingestion pipeline that turns a
// playlist URL into an assembled, progress-reconciled course.
//
// The core abstraction is CourseEngine, which orchestrates URL
// resolution, the paginated entry fetch, the batched details fetch, and
// reconciliation against saved progress. Operations emit progress updates
// via channels for non-blocking status reporting to CLI/UI layers.
package tasks
