package cache

import (
	"encoding/json"
	"fmt"
)

// Key builds a structured cache key: the domain, an underscore, and the
// canonical JSON encoding of params. Map keys are sorted by encoding/json, so
// the same filters always produce the same key regardless of the order the
// caller assembled them in.
//
//	Key("jobs", map[string]any{"page": 1, "location": "Pune"}) == `jobs_{"location":"Pune","page":1}`
func Key(domain string, params any) string {
	if params == nil {
		return domain + "_{}"
	}
	b, err := json.Marshal(params)
	if err != nil {
		// params that cannot be encoded still need a stable, distinct key
		return fmt.Sprintf("%s_%v", domain, params)
	}
	return domain + "_" + string(b)
}

// JobKey is the key of a single job detail response.
func JobKey(jobID string) string { return "job_" + jobID }

// EmployerKey is the key of a single employer profile response.
func EmployerKey(employerID string) string { return "employer_" + employerID }

// FAQKey is the key of the full FAQ listing.
const FAQKey = "faqs_all"
