// Package location provides the service location entity. A location's
// network availability gates request creation only at the moment of the
// call; later flag changes never invalidate existing requests.
package location

import "fmt"

type Location struct {
	id               uint
	areaName         string
	networkAvailable bool
}

func NewLocation(areaName string, networkAvailable bool) (*Location, error) {
	if areaName == "" {
		return nil, fmt.Errorf("area name is required")
	}
	return &Location{
		areaName:         areaName,
		networkAvailable: networkAvailable,
	}, nil
}

func ReconstructLocation(id uint, areaName string, networkAvailable bool) (*Location, error) {
	if id == 0 {
		return nil, fmt.Errorf("location ID cannot be zero")
	}
	return &Location{
		id:               id,
		areaName:         areaName,
		networkAvailable: networkAvailable,
	}, nil
}

func (l *Location) ID() uint {
	return l.id
}

func (l *Location) AreaName() string {
	return l.areaName
}

func (l *Location) IsNetworkAvailable() bool {
	return l.networkAvailable
}

func (l *Location) SetID(id uint) error {
	if l.id != 0 {
		return fmt.Errorf("location ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("location ID cannot be zero")
	}
	l.id = id
	return nil
}

func (l *Location) Rename(areaName string) error {
	if areaName == "" {
		return fmt.Errorf("area name is required")
	}
	l.areaName = areaName
	return nil
}

func (l *Location) SetNetworkAvailable(available bool) {
	l.networkAvailable = available
}
