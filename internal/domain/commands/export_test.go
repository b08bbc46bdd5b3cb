package commands

// HighestRange exports highestRange for testing.
var HighestRange = highestRange //nolint:gochecknoglobals // test export

// CalculateReplacements exports calculateReplacements for testing.
var CalculateReplacements = calculateReplacements //nolint:gochecknoglobals // test export

// AllIntersect exports allIntersect for testing.
var AllIntersect = allIntersect //nolint:gochecknoglobals // test export
