package contentmodel

import "encoding/json"

// Instance is an empty runtime content object shaped by a ContentType. Each
// region value is stored under its region id in declaration order.
type Instance struct {
	TypeID  string
	Regions *OrderedMap
}

// NewInstance creates an instance with no regions.
func NewInstance(typeID string) *Instance {
	return &Instance{TypeID: typeID, Regions: NewOrderedMap()}
}

// Region returns the value of the region with the given id.
func (i *Instance) Region(id string) (any, bool) {
	return i.Regions.Get(id)
}

// SetRegion implements RegionSetter.
func (i *Instance) SetRegion(id string, value any) error {
	i.Regions.Set(id, value)
	return nil
}

// MarshalJSON encodes the instance with its regions in order.
func (i *Instance) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TypeID  string      `json:"typeId"`
		Regions *OrderedMap `json:"regions"`
	}{i.TypeID, i.Regions})
}
