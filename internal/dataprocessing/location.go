package dataprocessing

// Functional location codes encode the train subsystem as a fixed-width
// field: three characters at 0-based offset 16, present only on codes longer
// than 17 characters.
const (
	subsystemCodeOffset = 16
	subsystemCodeWidth  = 3
	minSubsystemCodeLen = 18

	// SubsystemRollingStock is returned for codes too short to name a subsystem.
	SubsystemRollingStock = "Rolling Stock"
	// SubsystemNotApplicable is returned for a subsystem code missing from the table.
	SubsystemNotApplicable = "#N/A"
)

// LocationCodeTable maps three-character subsystem codes to subsystem names.
type LocationCodeTable map[string]string

// DefaultLocationCodes is the subsystem table of the rolling stock fleet.
var DefaultLocationCodes = LocationCodeTable{
	"901": "Propulsion System",
	"902": "Control Circuit",
	"903": "Auxiliary Power Supply",
	"904": "ATP/AO Signalling",
	"905": "Lighting",
	"906": "Air Conditioning and Ventilation System",
	"907": "Onboard Communication System",
	"908": "Doors",
	"909": "Special Equipment",
	"911": "Carbody Shell",
	"912": "Carbody Interior",
	"913": "Carbody Exterior",
	"915": "Bogies",
	"916": "Brake System",
	"918": "Coupling and Interconnection",
	"922": "Train Management System(TMS)",
	"923": "Liquid Cooling System",
}

// Resolve returns the subsystem name encoded in a functional location code.
// It never fails: short codes yield SubsystemRollingStock and unmapped codes
// yield SubsystemNotApplicable.
func (t LocationCodeTable) Resolve(code string) string {
	runes := []rune(code)
	if len(runes) < minSubsystemCodeLen {
		return SubsystemRollingStock
	}
	end := subsystemCodeOffset + subsystemCodeWidth
	if end > len(runes) {
		end = len(runes)
	}
	if name, ok := t[string(runes[subsystemCodeOffset:end])]; ok {
		return name
	}
	return SubsystemNotApplicable
}
