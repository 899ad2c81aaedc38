// package models defines the data model for the course tracker: videos,
// courses, and the durable per-course progress record.
package models
