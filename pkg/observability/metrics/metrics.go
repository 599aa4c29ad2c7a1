package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	conversionsTotal  atomic.Int64
	conversionErrors  atomic.Int64
	entityConditions  atomic.Int64
	entityMedications atomic.Int64
	entityProcedures  atomic.Int64
	warningsTotal     atomic.Int64
	cacheHitsTotal    atomic.Int64
	eventsPublished   atomic.Int64
)

func IncConversion(conditions, medications, procedures, warnings int) {
	conversionsTotal.Add(1)
	entityConditions.Add(int64(conditions))
	entityMedications.Add(int64(medications))
	entityProcedures.Add(int64(procedures))
	warningsTotal.Add(int64(warnings))
}

func IncConversionError() {
	conversionErrors.Add(1)
}

func IncCacheHit() {
	cacheHitsTotal.Add(1)
}

func IncEventPublished() {
	eventsPublished.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP notefhir_conversions_total Number of clinical note conversions served.\n")
	fmt.Fprintf(w, "# TYPE notefhir_conversions_total counter\n")
	fmt.Fprintf(w, "notefhir_conversions_total %d\n", conversionsTotal.Load())

	fmt.Fprintf(w, "# HELP notefhir_conversion_errors_total Number of conversions that failed.\n")
	fmt.Fprintf(w, "# TYPE notefhir_conversion_errors_total counter\n")
	fmt.Fprintf(w, "notefhir_conversion_errors_total %d\n", conversionErrors.Load())

	fmt.Fprintf(w, "# HELP notefhir_entities_condition_total Number of condition entities extracted.\n")
	fmt.Fprintf(w, "# TYPE notefhir_entities_condition_total counter\n")
	fmt.Fprintf(w, "notefhir_entities_condition_total %d\n", entityConditions.Load())

	fmt.Fprintf(w, "# HELP notefhir_entities_medication_total Number of medication entities extracted.\n")
	fmt.Fprintf(w, "# TYPE notefhir_entities_medication_total counter\n")
	fmt.Fprintf(w, "notefhir_entities_medication_total %d\n", entityMedications.Load())

	fmt.Fprintf(w, "# HELP notefhir_entities_procedure_total Number of procedure entities extracted.\n")
	fmt.Fprintf(w, "# TYPE notefhir_entities_procedure_total counter\n")
	fmt.Fprintf(w, "notefhir_entities_procedure_total %d\n", entityProcedures.Load())

	fmt.Fprintf(w, "# HELP notefhir_warnings_total Number of conversion warnings emitted.\n")
	fmt.Fprintf(w, "# TYPE notefhir_warnings_total counter\n")
	fmt.Fprintf(w, "notefhir_warnings_total %d\n", warningsTotal.Load())

	fmt.Fprintf(w, "# HELP notefhir_cache_hits_total Number of conversions served from cache.\n")
	fmt.Fprintf(w, "# TYPE notefhir_cache_hits_total counter\n")
	fmt.Fprintf(w, "notefhir_cache_hits_total %d\n", cacheHitsTotal.Load())

	fmt.Fprintf(w, "# HELP notefhir_events_published_total Number of conversion events published.\n")
	fmt.Fprintf(w, "# TYPE notefhir_events_published_total counter\n")
	fmt.Fprintf(w, "notefhir_events_published_total %d\n", eventsPublished.Load())
}
