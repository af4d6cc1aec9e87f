package extract

import "github.com/assailsec/assail/internal/model"

// severityForCount is the count-scaled half of §4.2's severity lookup
// table: `severity = f(count, classification, test_flag)`. Higher
// per-category counts in one file indicate a systemic rather than
// incidental pattern, so severity escalates with count.
func severityForCount(count int) model.Severity {
	switch {
	case count <= 0:
		return model.Info
	case count == 1:
		return model.Low
	case count <= 4:
		return model.Medium
	case count <= 9:
		return model.High
	default:
		return model.Critical
	}
}

// severityForAllocation implements §4.2's allocation classification rule:
// only user-controlled and unknown size arguments raise severity above
// Info; bounded and internally-bounded allocations are always Info
// regardless of count.
func severityForAllocation(class AllocationClass, count int) model.Severity {
	switch class {
	case AllocUserControlled:
		sev := severityForCount(count)
		if sev < model.Medium {
			return model.Medium // user-controlled allocation is never merely Low
		}
		return sev
	case AllocUnknown:
		sev := severityForCount(count)
		if sev > model.Low {
			sev = model.Low
		}
		return sev
	default: // AllocBounded, AllocInternallyBounded
		return model.Info
	}
}
