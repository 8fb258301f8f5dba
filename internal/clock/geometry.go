package clock

// TimeHands maps a second count within the half day onto the three
// rings. Each hand covers the LED it is leaving and the one it is
// approaching so the fade engine can blend between them.
//
// The hour hand normally shows the hour in progress. With advanceHour
// set it moves to the coming hour once more than half the hour has
// passed, the way many analog clocks are read. The +6 hour offset and
// the +30 raw minute offset project the light to the correct shadow
// position on the face; the 60 raw minute and second counts are halved
// onto the 30 LED rings.
func TimeHands(seconds int, advanceHour bool) (hour, minute, second Hand) {
	hr := seconds / 3600
	if advanceHour && (seconds/60)%60 > 30 {
		hr++
	}
	hour = newHand(hr+6, 12)
	minute = newHand(((seconds/60)%60+30)%60/2, 30)
	second = newHand((seconds%60+30)%60/2, 30)
	return hour, minute, second
}

func newHand(pos, size int) Hand {
	pos %= size
	return Hand{Current: pos, Next: (pos + 1) % size}
}

// LinePair returns the two drive lines that light the LED at pos on
// ring r. The tables encode the board's charlieplex wiring: the hour
// ring pairs lines 7 through 10 with each other, the second ring pairs
// lines 1 through 6 with each other, and the minute ring crosses the
// two groups. Every LED on the face gets a distinct ordered pair.
func LinePair(r Ring, pos int) (hi, lo Line) {
	switch r {
	case RingHour:
		return hourHi[pos], hourLo[pos]
	case RingMinute:
		return minuteHi[pos], minuteLo[pos]
	}
	return secondHi[pos], secondLo[pos]
}

var hourHi = [12]Line{
	8, 9, 10,
	7, 9, 10,
	7, 8, 10,
	7, 8, 9,
}

var hourLo = [12]Line{
	7, 7, 7,
	8, 8, 8,
	9, 9, 9,
	10, 10, 10,
}

var minuteHi = [30]Line{
	1, 2, 3, 4, 5, 6,
	1, 2, 3, 4, 5, 6,
	1, 2, 3, 4, 5, 6,
	1, 2, 3, 4, 5, 6,
	7, 8, 9, 10,
	7, 8,
}

var minuteLo = [30]Line{
	7, 7, 7, 7, 7, 7,
	8, 8, 8, 8, 8, 8,
	9, 9, 9, 9, 9, 9,
	10, 10, 10, 10, 10, 10,
	1, 1, 1, 1,
	2, 2,
}

var secondHi = [30]Line{
	2, 3, 4, 5, 6,
	1, 3, 4, 5, 6,
	1, 2, 4, 5, 6,
	1, 2, 3, 5, 6,
	1, 2, 3, 4, 6,
	1, 2, 3, 4, 5,
}

var secondLo = [30]Line{
	1, 1, 1, 1, 1,
	2, 2, 2, 2, 2,
	3, 3, 3, 3, 3,
	4, 4, 4, 4, 4,
	5, 5, 5, 5, 5,
	6, 6, 6, 6, 6,
}
