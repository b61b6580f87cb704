package domain

// CafeSettings is a singleton row owned by external provisioning; the core
// only reads it.
type CafeSettings struct {
	Latitude        float64
	Longitude       float64
	GeofenceRadiusM float64
}
