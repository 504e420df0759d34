// Package clock supplies the application clock and the civil timezone that
// scopes daily invoice sequences. Business dates are always derived from this
// timezone regardless of the server clock.
package clock

import (
	"sync"
	"time"

	"go.uber.org/fx"
)

// BusinessTimezone is the fixed civil timezone invoice days roll over in.
const BusinessTimezone = "Asia/Kolkata"

var (
	locOnce  sync.Once
	location *time.Location
)

// Location returns the business timezone, falling back to a fixed UTC+5:30
// zone when the host has no tz database.
func Location() *time.Location {
	locOnce.Do(func() {
		loc, err := time.LoadLocation(BusinessTimezone)
		if err != nil {
			loc = time.FixedZone("IST", 5*3600+1800)
		}
		location = loc
	})
	return location
}

// DateKey formats t as a business-date key (YYYY-MM-DD) in the business timezone.
func DateKey(t time.Time) string {
	return t.In(Location()).Format("2006-01-02")
}

// Clock abstracts time.Now so services can be tested against a pinned date.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock { return systemClock{} }

// Module provides the system clock.
var Module = fx.Provide(NewSystemClock)
