package models

// Room status values. The source strings are Vietnamese and are stored as-is
// in the room records, so they must not be translated or re-cased.
const (
	StatusOccupied    = "Có người"
	StatusVacant      = "Trống"
	StatusMaintenance = "Bảo trì"
)

// Presentation defaults derived from status.
const (
	ColorOccupied    = "#4CAF50"
	ColorVacant      = "#9E9E9E"
	ColorMaintenance = "#FF9800"

	IconHome         = "home"
	IconHomeOutlined = "homeOutlined"
	IconBuild        = "build"
)

// Room represents one rental unit as stored in the room store.
// Records are JSON documents keyed by ID, not SQL rows.
type Room struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Price       string  `json:"price"`
	Temperature string  `json:"temperature"`
	Occupant    *string `json:"occupant,omitempty"`

	// Presentation hints, defaulted from status when absent.
	Color string `json:"color"`
	Icon  string `json:"icon"`

	// Device state
	LightOn  bool `json:"lightOn"`
	FanOn    bool `json:"fanOn"`
	FanSpeed int  `json:"fanSpeed"`

	// Sensor state
	Humidity       int  `json:"humidity"`
	GasLevel       int  `json:"gasLevel"`
	GasAlert       bool `json:"gasAlert"`
	MotionDetected bool `json:"motionDetected"`

	CreatedAt int64 `json:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// StatusColorOf maps a room status to its display color.
func StatusColorOf(status string) string {
	switch status {
	case StatusOccupied:
		return ColorOccupied
	case StatusVacant:
		return ColorVacant
	case StatusMaintenance:
		return ColorMaintenance
	default:
		return ColorVacant
	}
}

// StatusIconOf maps a room status to its display icon.
func StatusIconOf(status string) string {
	switch status {
	case StatusVacant:
		return IconHomeOutlined
	case StatusMaintenance:
		return IconBuild
	default:
		return IconHome
	}
}

// EnsurePresentation fills color and icon from status when the source record
// omitted them. Every room handed to a consumer must have both set.
func (r *Room) EnsurePresentation() {
	if r.Color == "" {
		r.Color = StatusColorOf(r.Status)
	}
	if r.Icon == "" {
		r.Icon = StatusIconOf(r.Status)
	}
}

// RoomPatch is a partial room update. Only non-nil fields are applied,
// so a device toggle never erases name, price or status.
type RoomPatch struct {
	Name        *string `json:"name,omitempty"`
	Status      *string `json:"status,omitempty"`
	Price       *string `json:"price,omitempty"`
	Temperature *string `json:"temperature,omitempty"`
	Occupant    *string `json:"occupant,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`

	LightOn  *bool `json:"lightOn,omitempty"`
	FanOn    *bool `json:"fanOn,omitempty"`
	FanSpeed *int  `json:"fanSpeed,omitempty"`

	Humidity       *int  `json:"humidity,omitempty"`
	GasLevel       *int  `json:"gasLevel,omitempty"`
	GasAlert       *bool `json:"gasAlert,omitempty"`
	MotionDetected *bool `json:"motionDetected,omitempty"`
}

// Apply merges the patch into the room, field by field.
func (p RoomPatch) Apply(r *Room) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Price != nil {
		r.Price = *p.Price
	}
	if p.Temperature != nil {
		r.Temperature = *p.Temperature
	}
	if p.Occupant != nil {
		r.Occupant = p.Occupant
	}
	if p.Color != nil {
		r.Color = *p.Color
	}
	if p.Icon != nil {
		r.Icon = *p.Icon
	}
	if p.LightOn != nil {
		r.LightOn = *p.LightOn
	}
	if p.FanOn != nil {
		r.FanOn = *p.FanOn
	}
	if p.FanSpeed != nil {
		r.FanSpeed = *p.FanSpeed
	}
	if p.Humidity != nil {
		r.Humidity = *p.Humidity
	}
	if p.GasLevel != nil {
		r.GasLevel = *p.GasLevel
	}
	if p.GasAlert != nil {
		r.GasAlert = *p.GasAlert
	}
	if p.MotionDetected != nil {
		r.MotionDetected = *p.MotionDetected
	}
}

// IsEmpty reports whether the patch carries no fields at all.
func (p RoomPatch) IsEmpty() bool {
	return p == RoomPatch{}
}

// DemoRooms returns the fixed fallback dataset used when no store is
// configured or when a snapshot arrives empty. The dashboard never renders
// an empty room list.
func DemoRooms() []Room {
	occupant := "Nguyễn Văn A"
	return []Room{
		{
			ID:          "101",
			Name:        "Phòng 101",
			Status:      StatusOccupied,
			Temperature: "26°C",
			Price:       "3.500.000 VND/tháng",
			Occupant:    &occupant,
			Color:       ColorOccupied,
			Icon:        IconHome,
			LightOn:     true,
			Humidity:    55,
		},
		{
			ID:          "102",
			Name:        "Phòng 102",
			Status:      StatusVacant,
			Temperature: "24°C",
			Price:       "3.200.000 VND/tháng",
			Color:       ColorVacant,
			Icon:        IconHomeOutlined,
			Humidity:    48,
		},
	}
}
