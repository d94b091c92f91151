// Package wizard sequences form groups into steps and dispatches user events
// against them.
//
// Every step owns a Gate: Pending until its group validates, Ready while it
// stays valid (falling back to Pending when it stops being valid) and
// Completed once the user advances past it. An invalid group sends even a
// Completed gate back to Pending. A Session applies each event as a
// single run-to-completion chain: mutate the field, recompute failures,
// recompute messages, re-evaluate gates. Views read after an event therefore
// never observe a partially updated form.
//
// Sessions are not safe for concurrent use; the only operation that may
// overlap with others is the transport call made by Submit, which is guarded
// by the submission coordinator.
package wizard
