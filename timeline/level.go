// SPDX-License-Identifier: EPL-2.0

package timeline

import "math"

// MinDecibels is the floor at or below which a Level clamps to exact zero
// gain.
const MinDecibels = -128.0

// Level wraps a linear gain value, with constructors from dB and helpers
// back to dB. Values at or below MinDecibels clamp to zero so that summing
// silent channels produces bitwise silence rather than a very small
// nonzero residue.
type Level struct {
	linear float64
}

// Unity is 0 dB / 1.0 linear gain.
func Unity() Level { return Level{linear: 1.0} }

// ZeroLevel is -infinity dB / 0.0 linear gain.
func ZeroLevel() Level { return Level{linear: 0.0} }

// FromDB builds a Level from a decibel value, clamping to zero gain at or
// below MinDecibels.
func FromDB(db float64) Level {
	if db <= MinDecibels {
		return ZeroLevel()
	}
	return Level{linear: math.Pow(10.0, db/20.0)}
}

// FromLinear builds a Level directly from a linear gain value.
func FromLinear(linear float64) Level {
	if linear < 0 {
		linear = 0
	}
	return Level{linear: linear}
}

// AsLinear returns the linear gain.
func (l Level) AsLinear() float64 { return l.linear }

// AsDB returns the decibel value, or MinDecibels for exact zero gain.
func (l Level) AsDB() float64 {
	if l.linear <= 0 {
		return MinDecibels
	}
	return 20.0 * math.Log10(l.linear)
}

// Clamp restricts the level's linear gain to [min, max].
func (l Level) Clamp(min, max Level) Level {
	v := l.linear
	if v < min.linear {
		v = min.linear
	}
	if v > max.linear {
		v = max.linear
	}
	return Level{linear: v}
}
