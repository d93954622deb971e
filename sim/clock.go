package sim

import "time"

const minutesPerDay = 24 * 60

// Clock is the virtual time source of the simulation. It holds a wall date
// and a minute-of-day counter; Advance is the only mutator that notifies
// subscribers. All listener callbacks complete before Advance returns, so
// side effects of a minute tick are visible to the hour and day ticks of
// the same call.
type Clock struct {
	date        time.Time // midnight of the current simulated day
	minuteOfDay int
	hub         *Hub
}

// NewClock starts the virtual clock at the given instant (the baseline is
// today at 09:00). Sub-minute precision is dropped.
func NewClock(hub *Hub, start time.Time) *Clock {
	year, month, day := start.Date()
	return &Clock{
		date:        time.Date(year, month, day, 0, 0, 0, 0, start.Location()),
		minuteOfDay: start.Hour()*60 + start.Minute(),
		hub:         hub,
	}
}

// Now returns the current virtual instant.
func (c *Clock) Now() time.Time {
	return c.date.Add(time.Duration(c.minuteOfDay) * time.Minute)
}

// Date returns midnight of the current virtual day.
func (c *Clock) Date() time.Time { return c.date }

// Hour returns the current virtual hour in [0, 24).
func (c *Clock) Hour() int { return c.minuteOfDay / 60 }

// IsBusinessHour reports whether the store is open, i.e. the hour is in
// [BusinessOpenHour, BusinessCloseHour).
func (c *Clock) IsBusinessHour() bool {
	h := c.Hour()
	return h >= BusinessOpenHour && h < BusinessCloseHour
}

// Advance moves the clock forward by the given number of minutes, rolling
// the date over as many days as the jump covers. Notification order is
// fixed: every time-changed listener first, then hour-changed iff the hour
// value changed (carrying the final hour), then day-changed iff the date
// changed. A listener panic does not prevent later listeners from running;
// the Hub contains it.
func (c *Clock) Advance(minutes int) {
	if minutes <= 0 {
		return
	}
	prevHour := c.Hour()
	prevDate := c.date

	total := c.minuteOfDay + minutes
	c.minuteOfDay = total % minutesPerDay
	if days := total / minutesPerDay; days > 0 {
		c.date = c.date.AddDate(0, 0, days)
	}

	c.hub.EmitTimeChanged(c.Now())
	if c.Hour() != prevHour {
		c.hub.EmitHourChanged(c.Hour())
	}
	if !c.date.Equal(prevDate) {
		c.hub.EmitDayChanged(c.date)
	}
}

// SetTime is debug-only: it moves the minute hand without notifying anyone.
func (c *Clock) SetTime(hour, minute int) {
	c.minuteOfDay = hour*60 + minute
}

// SetDate is debug-only: it moves the date without notifying anyone.
func (c *Clock) SetDate(date time.Time) {
	year, month, day := date.Date()
	c.date = time.Date(year, month, day, 0, 0, 0, 0, date.Location())
}

// FormattedTime renders the virtual time as HH:MM for log lines.
func (c *Clock) FormattedTime() string {
	return c.Now().Format("15:04")
}

// FormattedDate renders the virtual date as YYYY-MM-DD for log lines.
func (c *Clock) FormattedDate() string {
	return c.date.Format("2006-01-02")
}
