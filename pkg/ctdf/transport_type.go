package ctdf

type TransportType string

const (
	TransportTypeBus       TransportType = "Bus"
	TransportTypeLightRail TransportType = "LightRail"
	TransportTypeTrain     TransportType = "Train"
	TransportTypeUnknown   TransportType = "UNKNOWN"
)
