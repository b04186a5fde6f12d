// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package cvt

// Observer is notified after every successful WriteTag on a tag it is
// attached to (spec §4.2). WriteTag calls Update after releasing the
// Repository's mutex, on the writer's goroutine; Update enqueues work to
// the observer's own queue and returns immediately, so it never blocks the
// writer.
type Observer interface {
	Update(tagName string, value TagValue)
}

// Sampler receives every successful tag write for batched persistence
// (spec §4.3's Data Logger). It is intentionally a separate, narrower
// interface from Observer: the Data Logger is wired in once at
// Repository construction, not attached/detached per tag.
type Sampler interface {
	Sample(tagName string, value TagValue)
}
