package safetyinfo

// apiSafetyInfo represents the safety-info payload from the trip management service.
type apiSafetyInfo struct {
	GuideName        string   `json:"guide_name"`
	GuidePhone       string   `json:"guide_phone"`
	EmergencyNumbers []string `json:"emergency_numbers"`
	MeetingPoint     string   `json:"meeting_point"`
	NearestHospital  string   `json:"nearest_hospital"`
	AuthorityWebhook string   `json:"authority_webhook"`
}
