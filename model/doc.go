// Package model defines the records kept by the event and attendance stores.
//
// Records are plain JSON-serializable structs. Field rules (required fields,
// length limits, email shape, event dates not in the past) are declared as
// validator tags and checked by [Validator]; the stores themselves never
// validate.
package model
