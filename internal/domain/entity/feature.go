package entity

// Feature slugs gated by plan
const (
	FeatureExportRendezvous = "export_rendezvous"
	FeatureSMSReminders     = "sms_reminders"
	FeatureCustomBranding   = "custom_branding"
)

// FeatureSet is the resolved feature map of a user.
// The zero value is an unloaded set and denies every feature.
type FeatureSet struct {
	loaded   bool
	features map[string]bool
}

// NewFeatureSet builds a loaded set from enabled flags
func NewFeatureSet(features map[string]bool) FeatureSet {
	set := FeatureSet{loaded: true, features: make(map[string]bool, len(features))}
	for slug, enabled := range features {
		set.features[slug] = enabled
	}
	return set
}

// FeatureSetFromRows builds a loaded set from plan_features rows
func FeatureSetFromRows(rows []PlanFeature) FeatureSet {
	features := make(map[string]bool, len(rows))
	for _, row := range rows {
		features[row.FeatureSlug] = row.Enabled
	}
	return NewFeatureSet(features)
}

func (s FeatureSet) Loaded() bool {
	return s.loaded
}

// HasAccess is false while unloaded and for unknown slugs
func (s FeatureSet) HasAccess(slug string) bool {
	if !s.loaded {
		return false
	}
	return s.features[slug]
}

// Map returns a copy of the flags
func (s FeatureSet) Map() map[string]bool {
	out := make(map[string]bool, len(s.features))
	for slug, enabled := range s.features {
		out[slug] = enabled
	}
	return out
}
