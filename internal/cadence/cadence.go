// Package cadence decides which pages are due for a check on a given
// minute of the hour. Premium owners get a check every 5 minutes,
// standard owners every 15; both tiers coincide on the hour boundary.
package cadence

// Due reports whether a page owned by the given tier should be checked
// this minute. Purely a function of its inputs.
func Due(minute int, premium bool) bool {
	if premium {
		return minute%5 == 0
	}
	return minute%15 == 0
}
