package echarts

// ExtractChartContent exposes extractChartContent for tests.
var ExtractChartContent = extractChartContent
