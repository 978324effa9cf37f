package provider

// SafetyInfoResult is the structured result from the trip safety info service.
type SafetyInfoResult struct {
	GuideName        string
	GuidePhone       string
	EmergencyNumbers []string
	MeetingPoint     *string
	NearestHospital  *string
	AuthorityWebhook *string
}

// LocationFix represents a device position sample from the geolocation service.
type LocationFix struct {
	Lat      float64
	Lng      float64
	Accuracy *float64
}
