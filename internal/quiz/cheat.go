package quiz

import "time"

// Detector counts clicks inside a fixed window that opens on the first click
// of a burst. The window is checked lazily on the next click, so no timer is
// needed: a burst whose window has elapsed is forgotten before counting.
type Detector struct {
	Threshold int
	Window    time.Duration
	Count     int
	Start     time.Time
}

// Click registers a click at now and reports whether the threshold was reached.
func (d *Detector) Click(now time.Time) bool {
	if d.Count > 0 && now.Sub(d.Start) >= d.Window {
		d.Count = 0
	}
	d.Count++
	if d.Count == 1 {
		d.Start = now
	}
	if d.Count >= d.Threshold {
		d.Reset()
		return true
	}
	return false
}

// Pending returns the clicks counted in the burst still open at now.
func (d *Detector) Pending(now time.Time) int {
	if d.Count > 0 && now.Sub(d.Start) >= d.Window {
		return 0
	}
	return d.Count
}

func (d *Detector) Reset() {
	d.Count = 0
	d.Start = time.Time{}
}

// Cheat is the easter-egg unlock state. It outlives quiz sessions.
type Cheat struct {
	Sun           Detector
	Theme         Detector
	SunUnlocked   bool
	ThemeUnlocked bool
	Active        bool
	Revealing     bool
}

const (
	sunClicks   = 3
	themeClicks = 2
)

func newCheat(window time.Duration) Cheat {
	return Cheat{
		Sun:   Detector{Threshold: sunClicks, Window: window},
		Theme: Detector{Threshold: themeClicks, Window: window},
	}
}

// arm flips Active once both unlocks hold. It reports whether this call did it.
func (c *Cheat) arm() bool {
	if c.Active || !c.SunUnlocked || !c.ThemeUnlocked {
		return false
	}
	c.Active = true
	return true
}
