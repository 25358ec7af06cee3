package trends

// CPISource provides annual CPI inflation values in percent. Missing years
// must be reported, never fabricated.
type CPISource interface {
	CPI(year int) (float64, bool)
}

// usCPI is annual US CPI-U inflation, percent year-over-year.
var usCPI = map[int]float64{
	2000: 3.4, 2001: 2.8, 2002: 1.6, 2003: 2.3, 2004: 2.7,
	2005: 3.4, 2006: 3.2, 2007: 2.8, 2008: 3.8, 2009: -0.4,
	2010: 1.6, 2011: 3.2, 2012: 2.1, 2013: 1.5, 2014: 1.6,
	2015: 0.1, 2016: 1.3, 2017: 2.1, 2018: 2.4, 2019: 1.8,
	2020: 1.2, 2021: 4.7, 2022: 8.0, 2023: 4.1, 2024: 2.9,
}

// USCPISource serves the built-in US annual CPI table.
type USCPISource struct{}

func (USCPISource) CPI(year int) (float64, bool) {
	v, ok := usCPI[year]
	return v, ok
}
