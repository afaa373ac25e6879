package raster

// BarLayout exposes barLayout for tests.
var BarLayout = barLayout
