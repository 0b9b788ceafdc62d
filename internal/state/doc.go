// Package state tracks the last-known state of one Hello Fairy light.
//
// The light pushes a status notification whenever its state changes,
// including changes made with the physical remote control, so the driver
// never polls. This package owns the canonical snapshot of that state and
// reconciles each decoded notification into it.
//
// # Reconciliation
//
// Tracker.Apply overwrites power and mode from every notification and the
// payload belonging to the reported mode. The inactive mode's payload is
// retained untouched: the device itself never clears the stale side, and
// the retained value is exactly what reappears when the light switches
// back. Apply returns a ChangeSet naming the fields that actually changed,
// computed by per-field value equality, so callers can propagate minimal
// updates. Applying the same notification twice yields an empty ChangeSet
// the second time.
//
// Notifications carry no sequence numbers; if they arrive out of order the
// last one applied wins.
//
// # Thread Safety
//
// A Tracker is safe for concurrent use. Apply and Snapshot serialize on an
// internal mutex; Snapshot returns an independent copy that callers may
// hold without locking.
package state
