// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/timeline"
)

// NotificationKind discriminates the variant carried by a Notification.
type NotificationKind int

const (
	EnvelopePeak NotificationKind = iota
	RecorderBufferFull
	RecorderStarted
	RecorderStopped
)

// Notification is a single event posted from the realtime thread to the
// control thread. Only the fields relevant to Kind are populated.
type Notification struct {
	Kind NotificationKind

	DspID ids.ID
	Time  timeline.Timestamp

	// Peak is the envelope follower's most recent peak reading, linear
	// scale, valid when Kind == EnvelopePeak.
	Peak float64

	// Buffer is a filled capture buffer handed off by a recorder node,
	// valid when Kind == RecorderBufferFull. Ownership passes to the
	// receiver; the recorder does not reuse it.
	Buffer *buffer.Owned
}

func NewEnvelopePeakNotification(dspID ids.ID, peak float64, t timeline.Timestamp) Notification {
	return Notification{Kind: EnvelopePeak, DspID: dspID, Peak: peak, Time: t}
}

func NewRecorderBufferFullNotification(dspID ids.ID, buf *buffer.Owned, t timeline.Timestamp) Notification {
	return Notification{Kind: RecorderBufferFull, DspID: dspID, Buffer: buf, Time: t}
}

func NewRecorderStartedNotification(dspID ids.ID, t timeline.Timestamp) Notification {
	return Notification{Kind: RecorderStarted, DspID: dspID, Time: t}
}

func NewRecorderStoppedNotification(dspID ids.ID, t timeline.Timestamp) Notification {
	return Notification{Kind: RecorderStopped, DspID: dspID, Time: t}
}
