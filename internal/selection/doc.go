// Package selection links checkbox state to row highlighting for a grid.
//
// The browser runs the same behaviour from the embedded script
// checkbox-column.js. This package is the server-side model of it: a
// [Document] of grid containers, a [Controller] that binds one delegated
// change listener per container, and a [Rebinder] that re-arms the binding
// whenever a container's content is replaced.
//
// All events of a Document are serialized under one lock, mirroring the
// browser's single-threaded event queue. Listeners run to completion before
// the next event is processed.
//
// Typical wiring:
//
//	doc := selection.NewDocument()
//	ctrl := selection.NewController(doc, logger)
//	rb := selection.NewRebinder(ctrl, logger)
//	rb.Attach(doc)
//
//	doc.Mount("orders-grid", selection.Keys("41", "42"))
//	rb.Register("orders-grid", "danger", true)
//	ctrl.Init("orders-grid", "danger")
//
//	doc.Dispatch("orders-grid", selection.RowChange("42", true))
//	doc.Replace("orders-grid", selection.Keys("43")) // re-armed by rb
package selection
