package timeslot

// CommonTimezones is the picker list offered on registration and settings.
// Any IANA name is accepted; this only drives the dropdown.
var CommonTimezones = []string{
	"UTC",
	"Europe/London",
	"Europe/Dublin",
	"Europe/Lisbon",
	"Europe/Paris",
	"Europe/Berlin",
	"Europe/Amsterdam",
	"Europe/Madrid",
	"Europe/Stockholm",
	"Europe/Warsaw",
	"Europe/Athens",
	"Europe/Helsinki",
	"Europe/Istanbul",
	"Europe/Moscow",
	"America/New_York",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
	"America/Sao_Paulo",
	"Asia/Dubai",
	"Asia/Kolkata",
	"Asia/Singapore",
	"Asia/Tokyo",
	"Australia/Sydney",
}

// TimezoneChoices returns CommonTimezones with current prepended when it is
// not already listed, so an unusual saved zone stays selectable.
func TimezoneChoices(current string) []string {
	if current == "" {
		return CommonTimezones
	}
	for _, tz := range CommonTimezones {
		if tz == current {
			return CommonTimezones
		}
	}
	return append([]string{current}, CommonTimezones...)
}
