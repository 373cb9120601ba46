package constants

// Known kinetic metric type tags. The set is closed for the common cases; the
// extraction service reports anything else under MetricOther with the unit kept
// verbatim.
const (
	MetricKcat                 = "kcat"
	MetricKm                   = "Km"
	MetricVmax                 = "Vmax"
	MetricSpecificActivity     = "SpecificActivity"
	MetricProductConcentration = "ProductConcentration"
	MetricConversion           = "Conversion"
	MetricHalfLife             = "HalfLife"
	MetricOther                = "Other"
)

// MetricTypes lists the accepted metric tags in their preferred export order.
var MetricTypes = []string{
	MetricKcat,
	MetricKm,
	MetricVmax,
	MetricSpecificActivity,
	MetricProductConcentration,
	MetricConversion,
	MetricHalfLife,
	MetricOther,
}

// FigureDataTypes holds the accepted data_type tags for figures flagged as
// requiring manual digitization.
var FigureDataTypes = []string{
	"time_course",
	"kinetic_curve",
	"inhibition_curve",
	"temperature_profile",
	"pH_profile",
	"other",
}
