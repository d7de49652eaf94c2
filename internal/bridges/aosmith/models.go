package aosmith

// Device is a water heater as reported by the cloud API.
//
// Devices are keyed by junction ID throughout the bridge; the ID is
// stable for the lifetime of the physical unit and anchors every entity
// unique ID derived from it.
type Device struct {
	JunctionID   string `json:"junctionId"`
	Name         string `json:"name"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial"`

	Status DeviceStatus `json:"data"`
}

// DeviceStatus holds the nested telemetry fields of a device snapshot.
//
// Pointer fields distinguish "value absent" from zero: the cloud omits
// fields the heater model does not support, and the matching sensor
// then reports unknown rather than 0.
type DeviceStatus struct {
	// HotWaterStatus is the available hot water percentage (0-100).
	HotWaterStatus *int `json:"hotWaterStatus,omitempty"`

	// Mode is the current operation mode (e.g., "HEAT_PUMP", "ELECTRIC").
	Mode string `json:"mode,omitempty"`

	// IsOnline reports device cloud connectivity.
	IsOnline bool `json:"isOnline"`
}
