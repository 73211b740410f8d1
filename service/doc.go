// Package service binds the generic entity store to the event and attendance
// records.
//
// Each service owns one [store.EntityStore] over a shared key/value service:
//
//	events      / lastEventId
//	attendances / lastAttendanceId
//
// Keys are prefixed with Config.Namespace when one is set. The services do not
// validate input; callers run [model.Validate] first.
package service
