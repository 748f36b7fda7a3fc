/*
percept is a real-time perception pipeline that classifies a hand tool
visible to a camera while tracking moving people to estimate their speed,
all from a single shared video source.

A capture loop publishes the most recent camera frame into a single slot
mailbox.  Two independent consumers read from it: a classification stage
which scores frames against a tool classifier under an admission gate that
allows one inference in flight at a time, and a tracking stage which runs a
person detector, assigns identities to detections across frames and derives
per identity speed in pixels per second.  Both stages publish their results
to single slot cells read by the presentation layer.

See example code and usage in the example subdirectory.
*/
package percept
